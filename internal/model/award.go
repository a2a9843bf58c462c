package model

// Award categories.
const (
	AwardBestOverall         = "best_overall"
	AwardBestVehicle         = "best_vehicle"
	AwardBestInfantry        = "best_infantry"
	AwardBestDestroyer       = "best_destroyer"
	AwardTeamkiller          = "teamkiller"
	AwardBestSniper          = "best_sniper"
	AwardBestVehicleDistance = "best_vehicle_distance"
	AwardBestTeam            = "best_team"
	AwardTeamkillTeam        = "teamkill_team"
)

// AwardCategories lists every category in display order.
var AwardCategories = []string{
	AwardBestOverall,
	AwardBestVehicle,
	AwardBestInfantry,
	AwardBestDestroyer,
	AwardTeamkiller,
	AwardBestSniper,
	AwardBestVehicleDistance,
	AwardBestTeam,
	AwardTeamkillTeam,
}

// AwardEntry is one category winner. Details is PlayerTotals for player
// categories, VictimEvent for distance categories and TeamAggregate for
// team categories.
type AwardEntry struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Details any     `json:"details"`
}

// Awards maps category → winner. Absent keys mean no qualifying entry.
type Awards map[string]AwardEntry
