// Package leaderboard picks per-category award winners from an aggregation
// snapshot.
package leaderboard

import (
	"math"

	"github.com/pable/go-ocap-stats/internal/classifier"
	"github.com/pable/go-ocap-stats/internal/identity"
	"github.com/pable/go-ocap-stats/internal/model"
)

// DefaultMinMissions is the eligibility threshold: a player must have played
// strictly more missions than this.
const DefaultMinMissions = 5

// Engine computes awards. The zero value has no tag matcher and therefore no
// eligible players; use NewEngine.
type Engine struct {
	MinMissions int
	Tags        identity.TagMatcher
}

// NewEngine returns an engine with the default threshold and tag matcher.
func NewEngine() Engine {
	return Engine{MinMissions: DefaultMinMissions, Tags: identity.DefaultTagMatcher()}
}

// Eligible reports whether p can win a player category.
func (e Engine) Eligible(p *model.PlayerAggregate) bool {
	return p.MissionsPlayed > e.MinMissions && e.Tags.Match(p.Name)
}

// Compute returns the winner of every category that has one. When no player
// is eligible the result is empty, team categories included.
func (e Engine) Compute(snap model.Snapshot) model.Awards {
	awards := make(model.Awards)

	var eligible []*model.PlayerAggregate
	for i := range snap.Players {
		if e.Eligible(&snap.Players[i]) {
			eligible = append(eligible, &snap.Players[i])
		}
	}
	if len(eligible) == 0 {
		return awards
	}

	ratio := func(key string, f func(*model.PlayerTotals) float64) {
		p, v := maxPlayer(eligible, f)
		awards[key] = model.AwardEntry{Name: p.Name, Value: round2(v), Details: p.PlayerTotals}
	}
	count := func(key string, f func(*model.PlayerTotals) float64) {
		p, v := maxPlayer(eligible, f)
		awards[key] = model.AwardEntry{Name: p.Name, Value: v, Details: p.PlayerTotals}
	}

	ratio(model.AwardBestOverall, (*model.PlayerTotals).FragsPerMission)
	ratio(model.AwardBestVehicle, (*model.PlayerTotals).VehicleFragsPerMission)
	ratio(model.AwardBestInfantry, (*model.PlayerTotals).InfantryFragsPerMission)
	count(model.AwardBestDestroyer, func(t *model.PlayerTotals) float64 { return float64(t.DestroyedVehicles) })
	count(model.AwardTeamkiller, func(t *model.PlayerTotals) float64 { return float64(t.Teamkills) })

	if a, ok := longestKill(eligible, model.FragInfantry); ok {
		awards[model.AwardBestSniper] = a
	}
	if a, ok := longestKill(eligible, model.FragVehicleKill); ok {
		awards[model.AwardBestVehicleDistance] = a
	}

	if len(snap.Teams) > 0 {
		best, tk := 0, 0
		for i := 1; i < len(snap.Teams); i++ {
			if snap.Teams[i].Score > snap.Teams[best].Score {
				best = i
			}
			if snap.Teams[i].Teamkills > snap.Teams[tk].Teamkills {
				tk = i
			}
		}
		t := snap.Teams[best]
		awards[model.AwardBestTeam] = model.AwardEntry{Name: t.Tag, Value: round2(t.Score), Details: t}
		t = snap.Teams[tk]
		awards[model.AwardTeamkillTeam] = model.AwardEntry{Name: t.Tag, Value: float64(t.Teamkills), Details: t}
	}
	return awards
}

// maxPlayer scans in order and keeps the first maximum.
func maxPlayer(players []*model.PlayerAggregate, f func(*model.PlayerTotals) float64) (*model.PlayerAggregate, float64) {
	best, bestV := players[0], f(&players[0].PlayerTotals)
	for _, p := range players[1:] {
		if v := f(&p.PlayerTotals); v > bestV {
			best, bestV = p, v
		}
	}
	return best, bestV
}

// longestKill finds the longest parseable distance among events of kind ft.
// Distances of zero never win.
func longestKill(players []*model.PlayerAggregate, ft model.FragType) (model.AwardEntry, bool) {
	var (
		winner string
		dist   int
		event  model.VictimEvent
	)
	for _, p := range players {
		for _, v := range p.Victims {
			if v.FragType != ft {
				continue
			}
			d, ok := classifier.ParseDistance(v.Distance)
			if !ok {
				continue
			}
			if d > dist {
				winner, dist, event = p.Name, d, v
			}
		}
	}
	if winner == "" {
		return model.AwardEntry{}, false
	}
	return model.AwardEntry{Name: winner, Value: float64(dist), Details: event}, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
