package model

// PlayerTotals is the counter part of a player's aggregate, without the
// event lists. Award details carry this shape.
type PlayerTotals struct {
	Frags             int `json:"frags"`
	FragInf           int `json:"frag_inf"`
	FragVeh           int `json:"frag_veh"`
	DestroyedVehicles int `json:"destroyed_vehicles"`
	Teamkills         int `json:"teamkills"`
	DeathsCount       int `json:"deaths_count"`
	MissionsPlayed    int `json:"missions_played"`
}

// FragsPerMission returns Frags / MissionsPlayed, 0 when no missions.
func (t *PlayerTotals) FragsPerMission() float64 {
	return perMission(t.Frags, t.MissionsPlayed)
}

// VehicleFragsPerMission returns FragVeh / MissionsPlayed.
func (t *PlayerTotals) VehicleFragsPerMission() float64 {
	return perMission(t.FragVeh, t.MissionsPlayed)
}

// InfantryFragsPerMission returns FragInf / MissionsPlayed.
func (t *PlayerTotals) InfantryFragsPerMission() float64 {
	return perMission(t.FragInf, t.MissionsPlayed)
}

// KDRatio returns Frags / DeathsCount, or Frags when the player never died.
func (t *PlayerTotals) KDRatio() float64 {
	if t.DeathsCount == 0 {
		return float64(t.Frags)
	}
	return float64(t.Frags) / float64(t.DeathsCount)
}

func perMission(n, missions int) float64 {
	if missions <= 0 {
		return 0
	}
	return float64(n) / float64(missions)
}

// PlayerAggregate holds stats for one normalized player name across missions.
type PlayerAggregate struct {
	Name string `json:"-"`
	PlayerTotals
	Victims []VictimEvent `json:"victims"`
	Deaths  []DeathEvent  `json:"deaths"`
}

// TeamMissionSummary is one mission line in a team's drill-down log.
type TeamMissionSummary struct {
	ID          string `json:"id"`
	MissionName string `json:"mission_name"`
	Map         string `json:"map"`
	Date        string `json:"date"`
	Frags       int    `json:"frags"`
	Deaths      int    `json:"deaths"`
	Teamkills   int    `json:"teamkills"`
}

// TeamAggregate holds stats for one normalized squad tag across missions.
type TeamAggregate struct {
	Tag            string               `json:"-"`
	Frags          int                  `json:"frags"`
	Teamkills      int                  `json:"teamkills"`
	Deaths         int                  `json:"deaths"`
	MissionsPlayed int                  `json:"missions_played"`
	TotalPlayers   int                  `json:"total_players"`
	Score          float64              `json:"score"`
	Missions       []TeamMissionSummary `json:"missions,omitempty"`
}

// Snapshot is the finished state of one aggregation run. Players and Teams
// keep first-sighting order, which is the tie-break order for awards.
type Snapshot struct {
	Players     []PlayerAggregate
	Teams       []TeamAggregate
	Missions    int // missions folded
	Skipped     int // missions dropped for a missing or malformed date
	OutOfWindow int // missions dated outside the run's window
}

// Player returns the aggregate for a normalized name.
func (s *Snapshot) Player(name string) (PlayerAggregate, bool) {
	for _, p := range s.Players {
		if p.Name == name {
			return p, true
		}
	}
	return PlayerAggregate{}, false
}

// Team returns the aggregate for a normalized tag.
func (s *Snapshot) Team(tag string) (TeamAggregate, bool) {
	for _, t := range s.Teams {
		if t.Tag == tag {
			return t, true
		}
	}
	return TeamAggregate{}, false
}

// PlayerMap returns the players keyed by normalized name.
func (s *Snapshot) PlayerMap() map[string]PlayerAggregate {
	out := make(map[string]PlayerAggregate, len(s.Players))
	for _, p := range s.Players {
		out[p.Name] = p
	}
	return out
}

// TeamMap returns the teams keyed by normalized tag.
func (s *Snapshot) TeamMap() map[string]TeamAggregate {
	out := make(map[string]TeamAggregate, len(s.Teams))
	for _, t := range s.Teams {
		out[t.Tag] = t
	}
	return out
}

// SeasonSummary is the season document handed to persistence/reporting.
type SeasonSummary struct {
	Players     map[string]PlayerAggregate `json:"players"`
	Teams       map[string]TeamAggregate   `json:"teams"`
	SeasonStart string                     `json:"season_start"`
	SeasonEnd   string                     `json:"season_end"`
}

// AllTimeSummary is the all-time variant of the summary document.
type AllTimeSummary struct {
	Players       map[string]PlayerAggregate `json:"players"`
	Teams         map[string]TeamAggregate   `json:"teams"`
	TotalMissions int                        `json:"total_missions"`
	DateGenerated string                     `json:"date_generated"`
}
