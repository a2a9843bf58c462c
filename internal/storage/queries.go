package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pable/go-ocap-stats/internal/model"
	"github.com/pable/go-ocap-stats/internal/season"
)

const (
	eventVictim = "victim"
	eventDeath  = "death"
)

// MissionExists returns true if a mission with the given id is already stored.
func (db *DB) MissionExists(id string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM missions WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMission stores rec, replacing any earlier copy with the same id.
func (db *DB) InsertMission(rec model.MissionRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"kill_events", "player_entries", "team_entries", "missions"} {
		col := "mission_id"
		if table == "missions" {
			col = "id"
		}
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE "+col+" = ?", rec.ID); err != nil {
			return fmt.Errorf("clear %s for %s: %w", table, rec.ID, err)
		}
	}

	sortDate := ""
	if d, ok := season.ParseDate(rec.Date); ok {
		sortDate = d.Format(season.DateLayout)
	}
	_, err = tx.Exec(`
		INSERT INTO missions(id, date, sort_date, name, map, source_file, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Date, sortDate, rec.Name, rec.Map, rec.SourceFile,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert mission %s: %w", rec.ID, err)
	}

	playerStmt, err := tx.Prepare(`
		INSERT INTO player_entries(
			mission_id, seq, name, side, grp,
			frag_inf, frag_veh, destroyed_vehicles, teamkills, vehicle_kills, ai_kills
		) VALUES (?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer playerStmt.Close()

	eventStmt, err := tx.Prepare(`
		INSERT INTO kill_events(
			mission_id, player_seq, seq, kind, kill_type, time, other_name,
			distance, weapon, frag_type, event_mission_id, event_mission_date
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer eventStmt.Close()

	for i, p := range rec.Players {
		_, err = playerStmt.Exec(
			rec.ID, i, p.Name, p.Side, p.Group,
			p.FragInf, p.FragVeh, p.DestroyedVehicles, p.Teamkills, p.VehicleKills, p.AIKills,
		)
		if err != nil {
			return fmt.Errorf("insert player %q: %w", p.Name, err)
		}
		seq := 0
		for _, v := range p.Victims {
			_, err = eventStmt.Exec(rec.ID, i, seq, eventVictim, v.KillType, v.Time, v.VictimName,
				v.Distance, v.Weapon, string(v.FragType), v.MissionID, v.MissionDate)
			if err != nil {
				return fmt.Errorf("insert kill event for %q: %w", p.Name, err)
			}
			seq++
		}
		if d := p.Death; d != nil {
			_, err = eventStmt.Exec(rec.ID, i, seq, eventDeath, d.KillType, d.Time, d.KillerName,
				d.Distance, d.Weapon, string(d.FragType), d.MissionID, d.MissionDate)
			if err != nil {
				return fmt.Errorf("insert death for %q: %w", p.Name, err)
			}
		}
	}

	for i, t := range rec.Teams {
		_, err = tx.Exec(`
			INSERT INTO team_entries(mission_id, seq, tag, side, frags, teamkills, deaths, total_players)
			VALUES (?,?,?,?,?,?,?,?)`,
			rec.ID, i, t.Tag, t.Side, t.Frags, t.Teamkills, t.Deaths, t.TotalPlayers,
		)
		if err != nil {
			return fmt.Errorf("insert team %q: %w", t.Tag, err)
		}
	}
	return tx.Commit()
}

// ListMissions returns stored missions, newest first.
func (db *DB) ListMissions() ([]model.MissionSummary, error) {
	rows, err := db.conn.Query(`
		SELECT m.id, m.date, m.name, m.map,
		       (SELECT COUNT(1) FROM player_entries p WHERE p.mission_id = m.id),
		       (SELECT COUNT(1) FROM team_entries t WHERE t.mission_id = m.id)
		FROM missions m
		ORDER BY m.sort_date DESC, m.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MissionSummary
	for rows.Next() {
		var s model.MissionSummary
		if err := rows.Scan(&s.ID, &s.Date, &s.Name, &s.Map, &s.Players, &s.Teams); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMission returns the full record for id, or nil if no such mission exists.
func (db *DB) GetMission(id string) (*model.MissionRecord, error) {
	recs, err := db.loadMissions("WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

// LoadMissions returns every stored mission in date order, then id. Missions
// whose date does not parse come first; the aggregator skips them.
func (db *DB) LoadMissions() ([]model.MissionRecord, error) {
	return db.loadMissions("")
}

// loadMissions reads missions matching where and attaches their players,
// events and teams. Each table is read in one pass; rows are never nested.
func (db *DB) loadMissions(where string, args ...any) ([]model.MissionRecord, error) {
	rows, err := db.conn.Query(`
		SELECT id, date, name, map, source_file FROM missions `+where+`
		ORDER BY sort_date, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query missions: %w", err)
	}
	var recs []model.MissionRecord
	index := make(map[string]int)
	for rows.Next() {
		var r model.MissionRecord
		if err := rows.Scan(&r.ID, &r.Date, &r.Name, &r.Map, &r.SourceFile); err != nil {
			rows.Close()
			return nil, err
		}
		index[r.ID] = len(recs)
		recs = append(recs, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}

	filter := ""
	if where != "" {
		filter = "WHERE mission_id IN (SELECT id FROM missions " + where + ")"
	}

	if err := db.attachPlayers(recs, index, filter, args); err != nil {
		return nil, err
	}
	if err := db.attachEvents(recs, index, filter, args); err != nil {
		return nil, err
	}
	if err := db.attachTeams(recs, index, filter, args); err != nil {
		return nil, err
	}
	return recs, nil
}

func (db *DB) attachPlayers(recs []model.MissionRecord, index map[string]int, filter string, args []any) error {
	rows, err := db.conn.Query(`
		SELECT mission_id, name, side, grp,
		       frag_inf, frag_veh, destroyed_vehicles, teamkills, vehicle_kills, ai_kills
		FROM player_entries `+filter+`
		ORDER BY mission_id, seq`, args...)
	if err != nil {
		return fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mid string
		var p model.PlayerMissionEntry
		if err := rows.Scan(&mid, &p.Name, &p.Side, &p.Group,
			&p.FragInf, &p.FragVeh, &p.DestroyedVehicles, &p.Teamkills, &p.VehicleKills, &p.AIKills,
		); err != nil {
			return err
		}
		if i, ok := index[mid]; ok {
			recs[i].Players = append(recs[i].Players, p)
		}
	}
	return rows.Err()
}

func (db *DB) attachEvents(recs []model.MissionRecord, index map[string]int, filter string, args []any) error {
	rows, err := db.conn.Query(`
		SELECT mission_id, player_seq, kind, kill_type, time, other_name,
		       distance, weapon, frag_type, event_mission_id, event_mission_date
		FROM kill_events `+filter+`
		ORDER BY mission_id, player_seq, seq`, args...)
	if err != nil {
		return fmt.Errorf("query kill events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			mid, kind, fragType string
			seq                 int
			v                   model.VictimEvent
		)
		if err := rows.Scan(&mid, &seq, &kind, &v.KillType, &v.Time, &v.VictimName,
			&v.Distance, &v.Weapon, &fragType, &v.MissionID, &v.MissionDate,
		); err != nil {
			return err
		}
		i, ok := index[mid]
		if !ok || seq < 0 || seq >= len(recs[i].Players) {
			continue
		}
		p := &recs[i].Players[seq]
		v.FragType = model.FragType(fragType)
		if kind == eventDeath {
			p.Death = &model.DeathEvent{
				KillType:    v.KillType,
				Time:        v.Time,
				KillerName:  v.VictimName,
				Distance:    v.Distance,
				Weapon:      v.Weapon,
				FragType:    v.FragType,
				MissionID:   v.MissionID,
				MissionDate: v.MissionDate,
			}
			continue
		}
		p.Victims = append(p.Victims, v)
	}
	return rows.Err()
}

func (db *DB) attachTeams(recs []model.MissionRecord, index map[string]int, filter string, args []any) error {
	rows, err := db.conn.Query(`
		SELECT mission_id, tag, side, frags, teamkills, deaths, total_players
		FROM team_entries `+filter+`
		ORDER BY mission_id, seq, tag`, args...)
	if err != nil {
		return fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mid string
		var t model.TeamMissionEntry
		if err := rows.Scan(&mid, &t.Tag, &t.Side, &t.Frags, &t.Teamkills, &t.Deaths, &t.TotalPlayers); err != nil {
			return err
		}
		if i, ok := index[mid]; ok {
			recs[i].Teams = append(recs[i].Teams, t)
		}
	}
	return rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and rows as text.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = formatCell(v)
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case float64:
		return fmt.Sprintf("%.4g", x)
	default:
		return fmt.Sprint(x)
	}
}

// Overview is a high-level summary of the store.
type Overview struct {
	TotalMissions   int
	EarliestMission string
	LatestMission   string
	UniqueMaps      int
	UniquePlayers   int
	TotalKills      int
	Snapshots       int
}

// GetOverview returns counts across all stored missions.
func (db *DB) GetOverview() (Overview, error) {
	var ov Overview
	var earliest, latest sql.NullString
	err := db.conn.QueryRow(`
		SELECT COUNT(1),
		       MIN(NULLIF(sort_date, '')),
		       MAX(NULLIF(sort_date, '')),
		       COUNT(DISTINCT map)
		FROM missions`).Scan(&ov.TotalMissions, &earliest, &latest, &ov.UniqueMaps)
	if err != nil {
		return ov, fmt.Errorf("count missions: %w", err)
	}
	ov.EarliestMission = earliest.String
	ov.LatestMission = latest.String

	if err := db.conn.QueryRow(`SELECT COUNT(DISTINCT name) FROM player_entries`).Scan(&ov.UniquePlayers); err != nil {
		return ov, fmt.Errorf("count players: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(1) FROM kill_events WHERE kind = ?`, eventVictim).Scan(&ov.TotalKills); err != nil {
		return ov, fmt.Errorf("count kills: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(1) FROM snapshots`).Scan(&ov.Snapshots); err != nil {
		return ov, fmt.Errorf("count snapshots: %w", err)
	}
	return ov, nil
}

// MapCount is the number of stored missions played on one map.
type MapCount struct {
	Map      string
	Missions int
}

// GetMapCounts returns mission counts per map, most played first.
func (db *DB) GetMapCounts() ([]MapCount, error) {
	rows, err := db.conn.Query(`
		SELECT map, COUNT(1) AS n FROM missions
		GROUP BY map ORDER BY n DESC, map`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MapCount
	for rows.Next() {
		var m MapCount
		if err := rows.Scan(&m.Map, &m.Missions); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")
