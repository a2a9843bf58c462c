package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/pable/go-ocap-stats/internal/leaderboard"
	"github.com/pable/go-ocap-stats/internal/model"
	"github.com/pable/go-ocap-stats/internal/season"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// makeRecords builds one mission per week from start, each with a tagged
// player and a squad.
func makeRecords(start time.Time, n int) []model.MissionRecord {
	var out []model.MissionRecord
	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, 7*i)
		out = append(out, model.MissionRecord{
			ID:   fmt.Sprint(i),
			Date: d.Format(season.DateLayout),
			Players: []model.PlayerMissionEntry{
				{Name: "[abc]Rook", FragInf: 1 + i%3, Victims: []model.VictimEvent{{FragType: model.FragInfantry, Distance: fmt.Sprintf("%dm", 100+i)}}},
				{Name: "[xyz]Ash", FragVeh: i % 2},
			},
			Teams: []model.TeamMissionEntry{{Tag: "ABC", Frags: 2, TotalPlayers: 1}},
		})
	}
	return out
}

func TestComputeSeasons_MatchesSequential(t *testing.T) {
	records := makeRecords(day(2025, 1, 3), 40)
	windows := season.Windows(day(2025, 1, 1), day(2025, 10, 1), 1)
	engine := leaderboard.NewEngine()

	got, err := ComputeSeasons(context.Background(), records, windows, engine, 3)
	if err != nil {
		t.Fatalf("ComputeSeasons: %v", err)
	}
	if len(got) != len(windows) {
		t.Fatalf("expected %d results, got %d", len(windows), len(got))
	}
	for i, w := range windows {
		want := ComputeSeason(records, i, w, engine)
		if got[i].Index != i || got[i].Window != w {
			t.Errorf("result %d: wrong window %s", i, got[i].Window.Label())
		}
		a, _ := json.Marshal(got[i].Summary)
		b, _ := json.Marshal(want.Summary)
		if string(a) != string(b) {
			t.Errorf("season %d summary differs from sequential run", i)
		}
		a, _ = json.Marshal(got[i].Awards)
		b, _ = json.Marshal(want.Awards)
		if string(a) != string(b) {
			t.Errorf("season %d awards differ from sequential run", i)
		}
	}
}

func TestComputeSeasons_IndependentState(t *testing.T) {
	records := makeRecords(day(2025, 1, 3), 10)
	windows := season.Windows(day(2025, 1, 1), day(2025, 4, 1), 1)

	got, err := ComputeSeasons(context.Background(), records, windows, leaderboard.NewEngine(), 0)
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, r := range got {
		total += r.Snapshot.Missions
		if r.Snapshot.Missions+r.Snapshot.OutOfWindow != len(records) {
			t.Errorf("season %d: folded+out-of-window should cover all records", r.Index)
		}
	}
	if total != len(records) {
		t.Errorf("each mission should land in exactly one season: %d of %d", total, len(records))
	}
	if records[0].Players[0].Name != "[abc]Rook" {
		t.Error("input records were mutated")
	}
}

func TestComputeSeasons_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	windows := season.Windows(day(2025, 1, 1), day(2025, 3, 1), 1)
	if _, err := ComputeSeasons(ctx, nil, windows, leaderboard.NewEngine(), 1); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestComputeAllTime(t *testing.T) {
	records := makeRecords(day(2025, 1, 3), 8)
	records = append(records, model.MissionRecord{ID: "bad", Date: "soon"})
	now := time.Date(2025, 9, 1, 12, 30, 0, 0, time.UTC)

	res := ComputeAllTime(records, leaderboard.NewEngine(), now)
	if res.Summary.TotalMissions != 8 || res.Snapshot.Skipped != 1 {
		t.Errorf("missions=%d skipped=%d", res.Summary.TotalMissions, res.Snapshot.Skipped)
	}
	if res.Summary.DateGenerated != "2025-09-01 12:30:00" {
		t.Errorf("date_generated: %q", res.Summary.DateGenerated)
	}
	if len(res.Summary.Teams["ABC"].Missions) != 8 {
		t.Errorf("all-time team log should list every mission")
	}
	if res.Awards[model.AwardBestSniper].Value != 107 {
		t.Errorf("best_sniper: %+v", res.Awards[model.AwardBestSniper])
	}
}

func TestSelect(t *testing.T) {
	ws := season.Windows(day(2025, 1, 1), day(2025, 4, 1), 1)
	if i, err := Select(ws, "latest"); err != nil || i != 2 {
		t.Errorf("latest: %d %v", i, err)
	}
	if i, err := Select(ws, ""); err != nil || i != 2 {
		t.Errorf("empty: %d %v", i, err)
	}
	if i, err := Select(ws, "1"); err != nil || i != 1 {
		t.Errorf("index: %d %v", i, err)
	}
	for _, bad := range []string{"3", "-1", "first"} {
		if _, err := Select(ws, bad); err == nil {
			t.Errorf("Select(%q) should fail", bad)
		}
	}
	if _, err := Select(nil, "latest"); err == nil {
		t.Error("no windows should fail")
	}
}
