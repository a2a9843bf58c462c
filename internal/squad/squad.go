// Package squad derives per-squad mission counters from a player roster when
// a mission record carries no team stats of its own.
package squad

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pable/go-ocap-stats/internal/model"
)

var (
	bracketTag = regexp.MustCompile(`\[([^\]]+)\]`)
	dotPrefix  = regexp.MustCompile(`^(\w+)\.`)
)

// Roster is the set of known squad tags.
type Roster []string

// LoadRoster reads a JSON array of squad tags.
func LoadRoster(path string) (Roster, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var r Roster
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}
	return r, nil
}

// ExtractTag returns the roster tag a player name belongs to: the first
// bracketed segment if it is on the roster exactly, otherwise a leading
// "prefix." matched case-insensitively.
func ExtractTag(name string, roster Roster) (string, bool) {
	if m := bracketTag.FindStringSubmatch(name); m != nil {
		for _, tag := range roster {
			if tag == m[1] {
				return tag, true
			}
		}
	}
	if m := dotPrefix.FindStringSubmatch(name); m != nil {
		for _, tag := range roster {
			if strings.EqualFold(tag, m[1]) {
				return tag, true
			}
		}
	}
	return "", false
}

// Derive rolls tagged players up into team entries, in the order each tag is
// first seen among players. Players without a roster tag are ignored.
func Derive(players []model.PlayerMissionEntry, roster Roster) []model.TeamMissionEntry {
	byTag := make(map[string]*model.TeamMissionEntry)
	var order []string
	for i := range players {
		p := &players[i]
		tag, ok := ExtractTag(p.Name, roster)
		if !ok {
			continue
		}
		t, ok := byTag[tag]
		if !ok {
			t = &model.TeamMissionEntry{Tag: tag}
			byTag[tag] = t
			order = append(order, tag)
		}
		t.Frags += p.FragTotal()
		t.Teamkills += p.Teamkills
		t.TotalPlayers++
		if p.Death != nil {
			t.Deaths++
		}
		if t.Side == "" && p.Side != "" && p.Side != model.UnknownSide {
			t.Side = p.Side
		}
	}

	out := make([]model.TeamMissionEntry, 0, len(order))
	for _, tag := range order {
		out = append(out, *byTag[tag])
	}
	return out
}

// Fill sets rec.Teams from the roster when the record has none.
func Fill(rec *model.MissionRecord, roster Roster) bool {
	if len(rec.Teams) > 0 || len(roster) == 0 {
		return false
	}
	rec.Teams = Derive(rec.Players, roster)
	return true
}
