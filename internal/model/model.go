package model

// FragType tags a kill-table event with its semantic kind.
type FragType string

const (
	FragInfantry         FragType = "infantry"
	FragVehicleKill      FragType = "vehicle_kill"
	FragVehicleDestroyed FragType = "vehicle_destroyed"
	FragTeamkill         FragType = "teamkill"
	FragDeath            FragType = "death"
)

// UnknownSide is the sentinel for a missing side or squad label.
const UnknownSide = "unknown"

// ---- Per-mission input, produced by upstream collaborators ----

// VictimEvent is one killer→victim relation from a player's kill table.
type VictimEvent struct {
	KillType    string   `json:"kill_type"`
	Time        string   `json:"time"`
	VictimName  string   `json:"victim_name"`
	Distance    string   `json:"distance"` // verbatim, e.g. "312m"; may be malformed
	Weapon      string   `json:"weapon"`
	FragType    FragType `json:"frag_type"`
	MissionID   string   `json:"mission_id"`
	MissionDate string   `json:"mission_date"`
}

// DeathEvent is a player's own death in a mission.
type DeathEvent struct {
	KillType    string   `json:"kill_type"`
	Time        string   `json:"time"`
	KillerName  string   `json:"killer_name"`
	Distance    string   `json:"distance"`
	Weapon      string   `json:"weapon"`
	FragType    FragType `json:"frag_type"`
	MissionID   string   `json:"mission_id"`
	MissionDate string   `json:"mission_date"`
}

// PlayerMissionEntry holds one player's row for one mission.
type PlayerMissionEntry struct {
	Name  string // raw, pre-normalization
	Side  string
	Group string

	FragInf           int
	FragVeh           int
	DestroyedVehicles int
	Teamkills         int

	// Raw summary-table counters, kept for drill-down only.
	VehicleKills int
	AIKills      int

	Death   *DeathEvent
	Victims []VictimEvent
}

// FragTotal is infantry + vehicle kills + destroyed vehicles.
func (e *PlayerMissionEntry) FragTotal() int {
	return e.FragInf + e.FragVeh + e.DestroyedVehicles
}

// TeamMissionEntry holds one squad's counters for one mission.
type TeamMissionEntry struct {
	Tag          string
	Side         string
	Frags        int
	Teamkills    int
	Deaths       int
	TotalPlayers int
}

// MissionRecord is one processed mission. Teams keep their source order.
type MissionRecord struct {
	ID         string
	Date       string // "YYYY-MM-DD" or "DD.MM.YYYY"
	Name       string
	Map        string
	SourceFile string
	Players    []PlayerMissionEntry
	Teams      []TeamMissionEntry
}

// MissionSummary is a lightweight record for list/show commands.
type MissionSummary struct {
	ID      string
	Date    string
	Name    string
	Map     string
	Players int
	Teams   int
}
