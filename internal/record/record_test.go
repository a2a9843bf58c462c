package record

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pable/go-ocap-stats/internal/aggregator"
	"github.com/pable/go-ocap-stats/internal/leaderboard"
	"github.com/pable/go-ocap-stats/internal/model"
)

const sampleMission = `{
	"id": 1234,
	"date": "2025-06-07",
	"mission_name": "Operation Dawn",
	"map": "Altis",
	"players_stats": [
		{
			"player_name": "[abc]Rook",
			"side": "WEST",
			"group": "Alpha 1-1",
			"frag_inf": 2,
			"frag_veh": "1",
			"destroyed_vehicles": 0,
			"teamkills": 0,
			"victims": [
				{"kill_type": "Kill", "time": "00:10:00", "victim_name": "[x]a", "distance": 250, "weapon": "M4", "frag_type": "infantry"},
				{"kill_type": "Kill", "time": "00:12:00", "victim_name": "[x]b", "distance": "900m", "weapon": "Mk19", "frag_type": "vehicle_kill", "mission_id": "77", "mission_date": "2025-06-08"}
			],
			"death": {"kill_type": "Kill", "time": "00:30:00", "victim_name": "[x]Hunter", "distance": "40m", "weapon": "AK", "frag_type": "death"}
		},
		{
			"player_name": "Loner"
		}
	],
	"team_stats": {
		"ZULU": {"frags": 4, "teamkills": 1, "deaths": 3, "total_players": 5, "side": "EAST"},
		"ABC": {"frags": 3, "deaths": 1}
	}
}`

func TestDecode_Fields(t *testing.T) {
	rec, err := Decode(strings.NewReader(sampleMission))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rec.ID != "1234" || rec.Date != "2025-06-07" || rec.Name != "Operation Dawn" || rec.Map != "Altis" {
		t.Errorf("header fields: %+v", rec)
	}
	if len(rec.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(rec.Players))
	}

	rook := rec.Players[0]
	if rook.FragInf != 2 || rook.FragVeh != 1 {
		t.Errorf("counters: inf=%d veh=%d", rook.FragInf, rook.FragVeh)
	}
	if rook.Victims[0].Distance != "250" {
		t.Errorf("numeric distance should become text, got %q", rook.Victims[0].Distance)
	}
	if rook.Victims[0].MissionID != "1234" || rook.Victims[0].MissionDate != "2025-06-07" {
		t.Errorf("missing mission fields should be filled: %+v", rook.Victims[0])
	}
	if rook.Victims[1].MissionID != "77" {
		t.Errorf("present mission fields should be kept: %+v", rook.Victims[1])
	}
	if rook.Death == nil || rook.Death.KillerName != "[x]Hunter" {
		t.Errorf("legacy victim_name on death should map to killer: %+v", rook.Death)
	}

	loner := rec.Players[1]
	if loner.Side != model.UnknownSide || loner.Group != model.UnknownSide {
		t.Errorf("missing side/group should default to unknown: %+v", loner)
	}
	if loner.FragTotal() != 0 || loner.Death != nil || loner.Victims != nil {
		t.Errorf("missing counters should be zero: %+v", loner)
	}
}

func TestDecode_TeamsKeepDocumentOrder(t *testing.T) {
	rec, err := Decode(strings.NewReader(sampleMission))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(rec.Teams) != 2 || rec.Teams[0].Tag != "ZULU" || rec.Teams[1].Tag != "ABC" {
		t.Fatalf("teams should follow team_stats key order: %+v", rec.Teams)
	}
	z := rec.Teams[0]
	if z.Frags != 4 || z.Teamkills != 1 || z.Deaths != 3 || z.TotalPlayers != 5 || z.Side != "EAST" {
		t.Errorf("ZULU: %+v", z)
	}
	if rec.Teams[1].TotalPlayers != 0 {
		t.Errorf("missing total_players should be 0, got %d", rec.Teams[1].TotalPlayers)
	}
}

func TestDecode_TeamStatsRepeatedKeyAndShape(t *testing.T) {
	rec, err := Decode(strings.NewReader(`{"id": "1", "team_stats": {"B": {"frags": 1}, "A": {"frags": 2}, "B": {"frags": 7}}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(rec.Teams) != 2 || rec.Teams[0].Tag != "B" || rec.Teams[0].Frags != 7 || rec.Teams[1].Tag != "A" {
		t.Errorf("repeated key should replace in place: %+v", rec.Teams)
	}

	rec, err = Decode(strings.NewReader(`{"id": "2", "team_stats": null}`))
	if err != nil || rec.Teams != nil {
		t.Errorf("null team_stats: teams=%+v err=%v", rec.Teams, err)
	}
	if _, err := Decode(strings.NewReader(`{"id": "3", "team_stats": [1, 2]}`)); err == nil {
		t.Error("expected an error for array team_stats")
	}
}

func TestDecode_EmptyDeathIsNoDeath(t *testing.T) {
	rec, err := Decode(strings.NewReader(`{"id": "1", "date": "2025-06-01", "players_stats": [{"player_name": "[A]x", "death": {}}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rec.Players[0].Death != nil {
		t.Errorf("empty death object should be no death, got %+v", rec.Players[0].Death)
	}
}

// Two squads tied on every counter: the one listed first in team_stats wins.
func TestDecode_TeamOrderDecidesTeamAwards(t *testing.T) {
	var records []model.MissionRecord
	for i := 1; i <= 6; i++ {
		doc := fmt.Sprintf(`{
			"id": "%d", "date": "2025-02-0%d",
			"players_stats": [{"player_name": "[A]x", "frag_inf": 1}],
			"team_stats": {
				"ZZZ": {"frags": 10, "total_players": 2, "teamkills": 1},
				"AAA": {"frags": 10, "total_players": 2, "teamkills": 1}
			}
		}`, i, i)
		rec, err := Decode(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("Decode %d: %v", i, err)
		}
		records = append(records, rec)
	}

	awards := leaderboard.NewEngine().Compute(aggregator.Run(records, aggregator.Options{}))
	if got := awards[model.AwardBestTeam].Name; got != "ZZZ" {
		t.Errorf("best_team: want ZZZ, got %q", got)
	}
	if got := awards[model.AwardTeamkillTeam].Name; got != "ZZZ" {
		t.Errorf("teamkill_team: want ZZZ, got %q", got)
	}
}

func TestDecode_KillTableReplacesCounters(t *testing.T) {
	const doc = `{
		"id": "9", "date": "01.06.2025",
		"players_stats": [{
			"player_name": "P",
			"frag_inf": 99, "teamkills": 99,
			"victims": [{"victim_name": "stale"}],
			"kill_table": [
				{"kill_type": "Kill", "victim": "a", "distance": "100m", "weapon": "M4"},
				{"kill_type": "TK", "victim": "b", "distance": "5m", "weapon": "M4"},
				{"kill_type": "Kill", "victim": "bot", "distance": "5m", "weapon": "M4", "ai": true},
				{"header": "Death"},
				{"kill_type": "Kill", "victim": "killer", "distance": "300m", "weapon": "SVD"}
			]
		}]
	}`
	rec, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	p := rec.Players[0]
	if p.FragInf != 1 || p.Teamkills != 1 || len(p.Victims) != 2 {
		t.Errorf("classifier output should replace counters: %+v", p)
	}
	if p.Victims[0].MissionID != "9" || p.Victims[0].MissionDate != "01.06.2025" {
		t.Errorf("classified events should carry mission fields: %+v", p.Victims[0])
	}
	if p.Death == nil || p.Death.KillerName != "killer" {
		t.Errorf("death: %+v", p.Death)
	}
}

func TestDecode_Malformed(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{"id": [1]}`)); err == nil {
		t.Error("expected an error for a non-scalar id")
	}
	if _, err := Decode(strings.NewReader(`not json`)); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadDir_SortsAndReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `{"id": "2", "date": "2025-06-02"}`)
	writeFile(t, dir, "a.json", `{"id": "3", "date": "01.06.2025"}`)
	writeFile(t, dir, "c.json", `{"id": "1", "date": "2025-06-02"}`)
	writeFile(t, dir, "broken.json", `{"id":`)
	writeFile(t, dir, "notes.txt", `ignored`)

	recs, failed, err := LoadDir(context.Background(), dir, 2)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(failed) != 1 || filepath.Base(failed[0].Path) != "broken.json" {
		t.Errorf("failed: %+v", failed)
	}
	var ids []string
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	if strings.Join(ids, ",") != "3,1,2" {
		t.Errorf("order: want 3,1,2 got %v", ids)
	}
	if recs[0].SourceFile != filepath.Join(dir, "a.json") {
		t.Errorf("source file not recorded: %q", recs[0].SourceFile)
	}
}

func TestLoadDir_Missing(t *testing.T) {
	if _, _, err := LoadDir(context.Background(), filepath.Join(t.TempDir(), "nope"), 1); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestLoadPaths_Cancelled(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.json", `{"id": "1", "date": "2025-06-02"}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := LoadPaths(ctx, []string{p}, 1); err == nil {
		t.Error("expected a cancellation error")
	}
}
