package classifier

import (
	"testing"

	"github.com/pable/go-ocap-stats/internal/model"
)

// kill builds a data row with the given markers.
func kill(killType, victim, distance, weapon string, victimVeh, weaponVeh bool) Row {
	return Row{
		KillType:      killType,
		Time:          "00:12:00",
		Victim:        victim,
		VictimVehicle: victimVeh,
		Distance:      distance,
		Weapon:        weapon,
		WeaponVehicle: weaponVeh,
	}
}

func TestClassify_PrecedenceAndCounters(t *testing.T) {
	rows := []Row{
		kill("Kill", "[A]Inf", "120m", "AK-74", false, false),
		kill("Kill", "[A]Crew", "800m", "BMP-2 2A42", false, true),
		kill("Kill", "T-72", "1500m", "9M113", true, false),
		kill("Kill", "BTR-80", "300m", "BMP-2 2A42", true, true),
		kill("tk", "[B]Friend", "5m", "BMP-2 2A42", true, true),
	}

	res := Classify(rows, "42", "2025-06-01")

	if res.FragInf != 1 || res.FragVeh != 1 || res.DestroyedVehicles != 2 || res.Teamkills != 1 {
		t.Fatalf("counters: inf=%d veh=%d destroyed=%d tk=%d",
			res.FragInf, res.FragVeh, res.DestroyedVehicles, res.Teamkills)
	}
	want := []model.FragType{
		model.FragInfantry,
		model.FragVehicleKill,
		model.FragVehicleDestroyed,
		model.FragVehicleDestroyed,
		model.FragTeamkill,
	}
	if len(res.Victims) != len(want) {
		t.Fatalf("expected %d victims, got %d", len(want), len(res.Victims))
	}
	for i, ft := range want {
		if res.Victims[i].FragType != ft {
			t.Errorf("victim %d: want %s, got %s", i, ft, res.Victims[i].FragType)
		}
		if res.Victims[i].MissionID != "42" || res.Victims[i].MissionDate != "2025-06-01" {
			t.Errorf("victim %d: mission fields not stamped", i)
		}
	}
	if res.Death != nil {
		t.Error("expected no death")
	}
}

func TestClassify_TKBeatsVehicleMarkers(t *testing.T) {
	res := Classify([]Row{kill(" TK ", "x", "10m", "Tank gun", true, true)}, "1", "")
	if len(res.Victims) != 1 || res.Victims[0].FragType != model.FragTeamkill {
		t.Fatalf("expected a single teamkill, got %+v", res.Victims)
	}
	if res.DestroyedVehicles != 0 || res.FragVeh != 0 {
		t.Error("teamkill must not count as a vehicle frag")
	}
}

func TestClassify_SectionsAndFirstDeathWins(t *testing.T) {
	rows := []Row{
		kill("Kill", "before-header", "50m", "M4", false, false),
		{Header: " Death "},
		kill("Kill", "FirstKiller", "200m", "SVD", false, false),
		kill("Kill", "SecondKiller", "20m", "AK", false, false),
		{Header: "KILLS"},
		kill("Kill", "after", "70m", "M4", false, false),
	}

	res := Classify(rows, "7", "01.06.2025")

	if res.FragInf != 2 {
		t.Errorf("expected 2 infantry frags, got %d", res.FragInf)
	}
	if len(res.Victims) != 2 || res.Victims[0].VictimName != "before-header" || res.Victims[1].VictimName != "after" {
		t.Errorf("unexpected victims order: %+v", res.Victims)
	}
	if res.Death == nil {
		t.Fatal("expected a death event")
	}
	if res.Death.KillerName != "FirstKiller" {
		t.Errorf("first death row should win, got %q", res.Death.KillerName)
	}
	if res.Death.FragType != model.FragDeath {
		t.Errorf("death frag type: want death, got %s", res.Death.FragType)
	}
}

func TestClassify_SkipsAIRows(t *testing.T) {
	ai := kill("Kill", "bot", "10m", "AK", false, false)
	ai.AI = true
	aiHeader := Row{Header: "Death", AI: true}

	res := Classify([]Row{ai, aiHeader, kill("Kill", "human", "10m", "AK", false, false)}, "1", "")

	if res.FragInf != 1 || len(res.Victims) != 1 || res.Victims[0].VictimName != "human" {
		t.Fatalf("AI rows should be ignored: %+v", res)
	}
	if res.Death != nil {
		t.Error("AI header must not switch sections")
	}
}

func TestClassify_MalformedDistanceRetained(t *testing.T) {
	res := Classify([]Row{kill("Kill", "x", "far away", "AK", false, false)}, "1", "")
	if len(res.Victims) != 1 || res.Victims[0].Distance != "far away" {
		t.Fatalf("event with malformed distance should be retained verbatim: %+v", res.Victims)
	}
}

func TestClassify_Empty(t *testing.T) {
	res := Classify(nil, "1", "")
	if res.Victims != nil || res.Death != nil || res.FragInf+res.FragVeh+res.DestroyedVehicles+res.Teamkills != 0 {
		t.Errorf("expected zero result, got %+v", res)
	}
}

func TestParseDistance(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"312m", 312, true},
		{" 45 m ", 45, true},
		{"0m", 0, true},
		{"1200", 1200, true},
		{"", 0, false},
		{"m", 0, false},
		{"12.5m", 0, false},
		{"n/a", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseDistance(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("ParseDistance(%q): want (%d,%v), got (%d,%v)", c.in, c.want, c.ok, got, ok)
		}
	}
}
