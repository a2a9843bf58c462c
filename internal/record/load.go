package record

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-ocap-stats/internal/model"
	"github.com/pable/go-ocap-stats/internal/season"
)

// DefaultLoadLimit bounds concurrent decodes in LoadDir.
const DefaultLoadLimit = 8

// FileError records a file that could not be loaded.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e FileError) Unwrap() error { return e.Err }

// LoadPaths decodes every path concurrently, at most limit at a time. Files
// that fail are returned in failed and never abort the load; only context
// cancellation does. Records come back sorted by date, then id.
func LoadPaths(ctx context.Context, paths []string, limit int) (records []model.MissionRecord, failed []FileError, err error) {
	if limit <= 0 {
		limit = DefaultLoadLimit
	}
	recs := make([]*model.MissionRecord, len(paths))
	errs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := LoadFile(p)
			if err != nil {
				errs[i] = err
				return nil
			}
			recs[i] = &rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("load records: %w", err)
	}

	for i, rec := range recs {
		if rec != nil {
			records = append(records, *rec)
			continue
		}
		failed = append(failed, FileError{Path: paths[i], Err: errs[i]})
	}
	SortByDate(records)
	return records, failed, nil
}

// LoadDir loads every *.json file directly under dir.
func LoadDir(ctx context.Context, dir string, limit int) ([]model.MissionRecord, []FileError, error) {
	paths, err := JSONFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	return LoadPaths(ctx, paths, limit)
}

// JSONFiles lists *.json files directly under dir in name order.
func JSONFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// SortByDate orders records by parsed date, then id. Records whose date does
// not parse sort first, by id.
func SortByDate(records []model.MissionRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		di, oki := season.ParseDate(records[i].Date)
		dj, okj := season.ParseDate(records[j].Date)
		if oki != okj {
			return !oki
		}
		if oki && !di.Equal(dj) {
			return di.Before(dj)
		}
		return records[i].ID < records[j].ID
	})
}
