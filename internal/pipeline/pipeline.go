// Package pipeline runs the aggregator and leaderboard over season windows.
package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-ocap-stats/internal/aggregator"
	"github.com/pable/go-ocap-stats/internal/leaderboard"
	"github.com/pable/go-ocap-stats/internal/model"
	"github.com/pable/go-ocap-stats/internal/season"
)

// SeasonResult is one season's aggregation and awards.
type SeasonResult struct {
	Index    int
	Window   season.Window
	Snapshot model.Snapshot
	Summary  model.SeasonSummary
	Awards   model.Awards
}

// AllTimeResult is the all-time aggregation.
type AllTimeResult struct {
	Snapshot model.Snapshot
	Summary  model.AllTimeSummary
	Awards   model.Awards
}

// ComputeSeason aggregates records inside w and computes its awards.
func ComputeSeason(records []model.MissionRecord, index int, w season.Window, engine leaderboard.Engine) SeasonResult {
	snap := aggregator.Run(records, aggregator.Options{Window: &w})
	return SeasonResult{
		Index:    index,
		Window:   w,
		Snapshot: snap,
		Summary:  aggregator.SeasonDocument(snap, w),
		Awards:   engine.Compute(snap),
	}
}

// ComputeSeasons runs one independent aggregation per window, at most limit
// at a time. Results are in window order and match sequential runs.
func ComputeSeasons(ctx context.Context, records []model.MissionRecord, windows []season.Window, engine leaderboard.Engine, limit int) ([]SeasonResult, error) {
	results := make([]SeasonResult, len(windows))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, w := range windows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = ComputeSeason(records, i, w, engine)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compute seasons: %w", err)
	}
	return results, nil
}

// ComputeAllTime aggregates every record with the per-team mission log on.
func ComputeAllTime(records []model.MissionRecord, engine leaderboard.Engine, now time.Time) AllTimeResult {
	snap := aggregator.Run(records, aggregator.Options{MissionLog: true})
	return AllTimeResult{
		Snapshot: snap,
		Summary:  aggregator.AllTimeDocument(snap, now),
		Awards:   engine.Compute(snap),
	}
}

// Select resolves a season argument: "" or "latest" is the last window, any
// other value a zero-based index.
func Select(windows []season.Window, arg string) (int, error) {
	if len(windows) == 0 {
		return 0, fmt.Errorf("no seasons: epoch is not before the horizon")
	}
	if arg == "" || arg == "latest" {
		return len(windows) - 1, nil
	}
	idx, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid season %q: want an index or \"latest\"", arg)
	}
	if idx < 0 || idx >= len(windows) {
		return 0, fmt.Errorf("season %d out of range (0-%d)", idx, len(windows)-1)
	}
	return idx, nil
}
