// Package record decodes mission-record JSON files into model.MissionRecord.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pable/go-ocap-stats/internal/classifier"
	"github.com/pable/go-ocap-stats/internal/model"
)

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*s = flexString(n.String())
	return nil
}

// flexInt accepts a JSON number or a numeric string; anything else is zero.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			*n = flexInt(int(f))
			return nil
		}
		*n = 0
		return nil
	}
	*n = flexInt(v)
	return nil
}

type eventJSON struct {
	KillType    string     `json:"kill_type"`
	Time        string     `json:"time"`
	VictimName  string     `json:"victim_name"`
	KillerName  string     `json:"killer_name"`
	Distance    flexString `json:"distance"`
	Weapon      string     `json:"weapon"`
	FragType    string     `json:"frag_type"`
	MissionID   flexString `json:"mission_id"`
	MissionDate string     `json:"mission_date"`
}

// empty reports an event object with no fields set, e.g. "death": {}.
func (e *eventJSON) empty() bool {
	return *e == eventJSON{}
}

type playerJSON struct {
	PlayerName        string           `json:"player_name"`
	Side              string           `json:"side"`
	Group             string           `json:"group"`
	FragInf           flexInt          `json:"frag_inf"`
	FragVeh           flexInt          `json:"frag_veh"`
	DestroyedVehicles flexInt          `json:"destroyed_vehicles"`
	Teamkills         flexInt          `json:"teamkills"`
	VehicleKills      flexInt          `json:"vehicle_kills"`
	AIKills           flexInt          `json:"ai_kills"`
	Victims           []eventJSON      `json:"victims"`
	Death             *eventJSON       `json:"death"`
	KillTable         []classifier.Row `json:"kill_table"`
}

type teamJSON struct {
	Side         string  `json:"side"`
	Frags        flexInt `json:"frags"`
	Teamkills    flexInt `json:"teamkills"`
	Deaths       flexInt `json:"deaths"`
	TotalPlayers flexInt `json:"total_players"`
}

type missionJSON struct {
	ID          flexString          `json:"id"`
	Date        string              `json:"date"`
	MissionName string              `json:"mission_name"`
	Map         string              `json:"map"`
	Players     []playerJSON        `json:"players_stats"`
	Teams       teamStats           `json:"team_stats"`
}

type teamStat struct {
	tag string
	teamJSON
}

// teamStats keeps team_stats entries in document key order. A repeated key
// replaces the earlier value in place.
type teamStats []teamStat

func (ts *teamStats) UnmarshalJSON(b []byte) error {
	doc := gjson.ParseBytes(b)
	if doc.Type == gjson.Null {
		*ts = nil
		return nil
	}
	if !doc.IsObject() {
		return fmt.Errorf("team_stats: want object, got %s", doc.Type)
	}
	out := teamStats{}
	pos := make(map[string]int)
	var err error
	doc.ForEach(func(key, value gjson.Result) bool {
		var t teamJSON
		if err = json.Unmarshal([]byte(value.Raw), &t); err != nil {
			err = fmt.Errorf("team_stats %q: %w", key.String(), err)
			return false
		}
		if i, ok := pos[key.String()]; ok {
			out[i].teamJSON = t
			return true
		}
		pos[key.String()] = len(out)
		out = append(out, teamStat{tag: key.String(), teamJSON: t})
		return true
	})
	if err != nil {
		return err
	}
	*ts = out
	return nil
}

// Decode reads one mission record. Teams keep their team_stats key order.
// Missing counters default to zero and a missing side or group to "unknown". When a player carries a raw kill_table
// the classifier output replaces its victims, death and frag counters.
func Decode(r io.Reader) (model.MissionRecord, error) {
	var raw missionJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return model.MissionRecord{}, fmt.Errorf("decode mission: %w", err)
	}

	rec := model.MissionRecord{
		ID:   strings.TrimSpace(string(raw.ID)),
		Date: strings.TrimSpace(raw.Date),
		Name: raw.MissionName,
		Map:  raw.Map,
	}
	rec.Players = make([]model.PlayerMissionEntry, 0, len(raw.Players))
	for _, p := range raw.Players {
		rec.Players = append(rec.Players, convertPlayer(p, rec.ID, rec.Date))
	}

	for _, t := range raw.Teams {
		rec.Teams = append(rec.Teams, model.TeamMissionEntry{
			Tag:          t.tag,
			Side:         t.Side,
			Frags:        int(t.Frags),
			Teamkills:    int(t.Teamkills),
			Deaths:       int(t.Deaths),
			TotalPlayers: int(t.TotalPlayers),
		})
	}
	return rec, nil
}

func convertPlayer(p playerJSON, missionID, missionDate string) model.PlayerMissionEntry {
	e := model.PlayerMissionEntry{
		Name:              p.PlayerName,
		Side:              orUnknown(p.Side),
		Group:             orUnknown(p.Group),
		FragInf:           int(p.FragInf),
		FragVeh:           int(p.FragVeh),
		DestroyedVehicles: int(p.DestroyedVehicles),
		Teamkills:         int(p.Teamkills),
		VehicleKills:      int(p.VehicleKills),
		AIKills:           int(p.AIKills),
	}

	if len(p.KillTable) > 0 {
		res := classifier.Classify(p.KillTable, missionID, missionDate)
		e.Victims = res.Victims
		e.Death = res.Death
		e.FragInf = res.FragInf
		e.FragVeh = res.FragVeh
		e.DestroyedVehicles = res.DestroyedVehicles
		e.Teamkills = res.Teamkills
		return e
	}

	for _, v := range p.Victims {
		e.Victims = append(e.Victims, model.VictimEvent{
			KillType:    v.KillType,
			Time:        v.Time,
			VictimName:  v.VictimName,
			Distance:    string(v.Distance),
			Weapon:      v.Weapon,
			FragType:    model.FragType(v.FragType),
			MissionID:   or(string(v.MissionID), missionID),
			MissionDate: or(v.MissionDate, missionDate),
		})
	}
	if d := p.Death; d != nil && !d.empty() {
		// Older records stored the killer under victim_name.
		killer := d.KillerName
		if killer == "" {
			killer = d.VictimName
		}
		e.Death = &model.DeathEvent{
			KillType:    d.KillType,
			Time:        d.Time,
			KillerName:  killer,
			Distance:    string(d.Distance),
			Weapon:      d.Weapon,
			FragType:    model.FragDeath,
			MissionID:   or(string(d.MissionID), missionID),
			MissionDate: or(d.MissionDate, missionDate),
		}
	}
	return e
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func orUnknown(s string) string {
	return or(strings.TrimSpace(s), model.UnknownSide)
}

// LoadFile decodes the mission record at path.
func LoadFile(path string) (model.MissionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.MissionRecord{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rec, err := Decode(f)
	if err != nil {
		return model.MissionRecord{}, fmt.Errorf("%s: %w", path, err)
	}
	rec.SourceFile = path
	return rec, nil
}
