package squad

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pable/go-ocap-stats/internal/model"
)

var roster = Roster{"ABC", "DW", "Wolf"}

func TestExtractTag(t *testing.T) {
	cases := []struct {
		name string
		want string
		ok   bool
	}{
		{"[ABC]Rook", "ABC", true},
		{"[abc]Rook", "", false}, // bracket match is exact
		{"Dw.Rook", "DW", true},
		{"wolf.Scout", "Wolf", true},
		{"[XYZ]Rook", "", false},
		{"Rook", "", false},
		{"Mr. Rook", "", false},
	}
	for _, c := range cases {
		got, ok := ExtractTag(c.name, roster)
		if got != c.want || ok != c.ok {
			t.Errorf("ExtractTag(%q): want (%q,%v), got (%q,%v)", c.name, c.want, c.ok, got, ok)
		}
	}
}

func TestDerive(t *testing.T) {
	players := []model.PlayerMissionEntry{
		{Name: "[ABC]a", Side: model.UnknownSide, FragInf: 2, FragVeh: 1, Teamkills: 1},
		{Name: "[ABC]b", Side: "WEST", DestroyedVehicles: 1, Death: &model.DeathEvent{}},
		{Name: "DW.c", Side: "EAST", FragInf: 3, Death: &model.DeathEvent{}},
		{Name: "nobody", FragInf: 10},
	}
	teams := Derive(players, roster)
	if len(teams) != 2 || teams[0].Tag != "ABC" || teams[1].Tag != "DW" {
		t.Fatalf("teams: %+v", teams)
	}
	abc := teams[0]
	if abc.Frags != 4 || abc.Teamkills != 1 || abc.Deaths != 1 || abc.TotalPlayers != 2 || abc.Side != "WEST" {
		t.Errorf("ABC: %+v", abc)
	}
	if dw := teams[1]; dw.Frags != 3 || dw.TotalPlayers != 1 || dw.Deaths != 1 {
		t.Errorf("DW: %+v", dw)
	}
}

func TestDerive_FirstSightingOrder(t *testing.T) {
	players := []model.PlayerMissionEntry{
		{Name: "DW.z", FragInf: 1},
		{Name: "[ABC]a", FragInf: 1},
		{Name: "dw.y", FragInf: 1},
	}
	teams := Derive(players, roster)
	if len(teams) != 2 || teams[0].Tag != "DW" || teams[1].Tag != "ABC" {
		t.Fatalf("teams should follow first sighting, got %+v", teams)
	}
	if teams[0].TotalPlayers != 2 {
		t.Errorf("DW roster size: want 2, got %d", teams[0].TotalPlayers)
	}
}

func TestFill(t *testing.T) {
	rec := model.MissionRecord{Players: []model.PlayerMissionEntry{{Name: "[ABC]a", FragInf: 1}}}
	if !Fill(&rec, roster) || len(rec.Teams) != 1 {
		t.Fatalf("expected teams to be filled: %+v", rec.Teams)
	}
	rec.Teams[0].Frags = 42
	if Fill(&rec, roster) || rec.Teams[0].Frags != 42 {
		t.Error("existing team stats must not be replaced")
	}
	empty := model.MissionRecord{Players: rec.Players}
	if Fill(&empty, nil) {
		t.Error("no roster: nothing to fill")
	}
}

func TestLoadRoster(t *testing.T) {
	p := filepath.Join(t.TempDir(), "team.json")
	if err := os.WriteFile(p, []byte(`["ABC", "DW"]`), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := LoadRoster(p)
	if err != nil {
		t.Fatalf("LoadRoster: %v", err)
	}
	if len(r) != 2 || r[1] != "DW" {
		t.Errorf("roster: %v", r)
	}
	if _, err := LoadRoster(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
