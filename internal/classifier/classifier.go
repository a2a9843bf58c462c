// Package classifier turns a player's raw Kills/Death table into typed events.
package classifier

import (
	"strconv"
	"strings"

	"github.com/pable/go-ocap-stats/internal/model"
)

// Section is the part of a kill table a row belongs to.
type Section int

const (
	SectionKills Section = iota
	SectionDeath
)

// Row is one extracted table row. A row with a non-empty Header is a section
// header ("Kills" or "Death"); every other row is a data row.
type Row struct {
	Header        string `json:"header,omitempty"`
	KillType      string `json:"kill_type,omitempty"`
	Time          string `json:"time,omitempty"`
	Victim        string `json:"victim,omitempty"`
	VictimVehicle bool   `json:"victim_vehicle,omitempty"`
	Distance      string `json:"distance,omitempty"`
	Weapon        string `json:"weapon,omitempty"`
	WeaponVehicle bool   `json:"weapon_vehicle,omitempty"`
	AI            bool   `json:"ai,omitempty"` // greyed row: the subject is not a human player
}

// IsHeader reports whether r switches sections.
func (r Row) IsHeader() bool {
	return strings.TrimSpace(r.Header) != ""
}

// Result is the classified content of one player's table for one mission.
type Result struct {
	Victims           []model.VictimEvent
	Death             *model.DeathEvent
	FragInf           int
	FragVeh           int
	DestroyedVehicles int
	Teamkills         int
}

// Classify walks rows in order. Rows before the first header are kills; AI
// rows are ignored; only the first Death row is kept.
func Classify(rows []Row, missionID, missionDate string) Result {
	var res Result
	section := SectionKills

	for _, row := range rows {
		if row.AI {
			continue
		}
		if row.IsHeader() {
			switch strings.ToLower(strings.TrimSpace(row.Header)) {
			case "kills":
				section = SectionKills
			case "death":
				section = SectionDeath
			}
			continue
		}

		if section == SectionDeath {
			if res.Death == nil {
				res.Death = &model.DeathEvent{
					KillType:    row.KillType,
					Time:        row.Time,
					KillerName:  row.Victim,
					Distance:    row.Distance,
					Weapon:      row.Weapon,
					FragType:    model.FragDeath,
					MissionID:   missionID,
					MissionDate: missionDate,
				}
			}
			continue
		}

		ft := fragType(row)
		switch ft {
		case model.FragTeamkill:
			res.Teamkills++
		case model.FragVehicleDestroyed:
			res.DestroyedVehicles++
		case model.FragVehicleKill:
			res.FragVeh++
		default:
			res.FragInf++
		}
		res.Victims = append(res.Victims, model.VictimEvent{
			KillType:    row.KillType,
			Time:        row.Time,
			VictimName:  row.Victim,
			Distance:    row.Distance,
			Weapon:      row.Weapon,
			FragType:    ft,
			MissionID:   missionID,
			MissionDate: missionDate,
		})
	}
	return res
}

// fragType applies the precedence TK > destroyed vehicle > vehicle weapon > infantry.
func fragType(row Row) model.FragType {
	switch {
	case strings.EqualFold(strings.TrimSpace(row.KillType), "TK"):
		return model.FragTeamkill
	case row.VictimVehicle:
		return model.FragVehicleDestroyed
	case row.WeaponVehicle:
		return model.FragVehicleKill
	default:
		return model.FragInfantry
	}
}

// ParseDistance extracts an integer distance from text such as "312m" or
// " 45 m". ok is false when the text is not a whole number once the unit is
// stripped; such events are unusable for distance rankings.
func ParseDistance(text string) (meters int, ok bool) {
	s := strings.TrimSpace(strings.ReplaceAll(text, "m", ""))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
