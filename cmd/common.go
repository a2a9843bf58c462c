package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pable/go-ocap-stats/internal/leaderboard"
	"github.com/pable/go-ocap-stats/internal/model"
	"github.com/pable/go-ocap-stats/internal/pipeline"
	"github.com/pable/go-ocap-stats/internal/season"
	"github.com/pable/go-ocap-stats/internal/storage"
)

// openDB opens the configured database, creating its directory if needed.
func openDB() (*storage.DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Open(dbPath, log)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// loadRecords reads every stored mission in date order.
func loadRecords(db *storage.DB) ([]model.MissionRecord, error) {
	recs, err := db.LoadMissions()
	if err != nil {
		return nil, fmt.Errorf("load missions: %w", err)
	}
	log.Debug().Int("missions", len(recs)).Msg("missions loaded")
	return recs, nil
}

// seasonWindows returns the configured season windows up to now.
func seasonWindows() []season.Window {
	return cfg.Windows(time.Now().UTC())
}

func awardEngine() (leaderboard.Engine, error) {
	e, err := cfg.Engine()
	if err != nil {
		return e, fmt.Errorf("build award engine: %w", err)
	}
	return e, nil
}

// writeJSON writes v as indented JSON to path, or to stdout when path is "-".
func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	b = append(b, '\n')
	if path == "-" {
		_, err = os.Stdout.Write(b)
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("summary written")
	return nil
}

func logSnapshot(label string, snap model.Snapshot) {
	ev := log.Info().Str("run", label).Int("missions", snap.Missions).
		Int("players", len(snap.Players)).Int("squads", len(snap.Teams))
	if snap.Skipped > 0 {
		ev = ev.Int("skipped_bad_date", snap.Skipped)
	}
	ev.Msg("aggregation finished")
}

func computeAllTime(records []model.MissionRecord, engine leaderboard.Engine) pipeline.AllTimeResult {
	res := pipeline.ComputeAllTime(records, engine, time.Now())
	logSnapshot("alltime", res.Snapshot)
	return res
}
