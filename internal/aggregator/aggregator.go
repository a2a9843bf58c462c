// Package aggregator folds mission records into per-player and per-team totals.
package aggregator

import (
	"time"

	"github.com/pable/go-ocap-stats/internal/identity"
	"github.com/pable/go-ocap-stats/internal/model"
	"github.com/pable/go-ocap-stats/internal/season"
)

// Options controls one aggregation run.
type Options struct {
	// Window restricts the run to missions dated inside it. Nil means all time.
	Window *season.Window
	// MissionLog appends a per-mission summary to every team aggregate.
	MissionLog bool
}

// Accumulator is the running state of one aggregation run. It is passed by
// value through Fold, but the maps behind it are shared: once an Accumulator
// has been handed to Fold only the returned value may be used.
type Accumulator struct {
	opts Options

	players     map[string]*model.PlayerAggregate
	playerOrder []string
	teams       map[string]*model.TeamAggregate
	teamOrder   []string

	missions    int
	skipped     int
	outOfWindow int
}

// New returns an empty accumulator.
func New(opts Options) Accumulator {
	return Accumulator{
		opts:    opts,
		players: make(map[string]*model.PlayerAggregate),
		teams:   make(map[string]*model.TeamAggregate),
	}
}

// Run folds records in order into a fresh accumulator and returns its snapshot.
func Run(records []model.MissionRecord, opts Options) model.Snapshot {
	acc := New(opts)
	for _, rec := range records {
		acc = Fold(acc, rec)
	}
	return acc.Snapshot()
}

// Fold adds one mission to acc. Missions with a missing or malformed date are
// skipped, as are missions outside the configured window. rec is not modified.
func Fold(acc Accumulator, rec model.MissionRecord) Accumulator {
	if acc.players == nil {
		acc = New(acc.opts)
	}

	date, ok := season.ParseDate(rec.Date)
	if !ok {
		acc.skipped++
		return acc
	}
	if acc.opts.Window != nil && !acc.opts.Window.Contains(date) {
		acc.outOfWindow++
		return acc
	}
	acc.missions++

	seenPlayers := make(map[string]struct{}, len(rec.Players))
	for i := range rec.Players {
		acc.foldPlayer(&rec.Players[i], seenPlayers)
	}

	seenTeams := make(map[string]struct{}, len(rec.Teams))
	for _, team := range rec.Teams {
		acc.foldTeam(rec, team, seenTeams)
	}
	return acc
}

func (acc *Accumulator) foldPlayer(entry *model.PlayerMissionEntry, seen map[string]struct{}) {
	name := identity.NormalizePlayerName(entry.Name)

	p, ok := acc.players[name]
	if !ok {
		p = &model.PlayerAggregate{Name: name}
		acc.players[name] = p
		acc.playerOrder = append(acc.playerOrder, name)
	}
	if _, dup := seen[name]; !dup {
		p.MissionsPlayed++
		seen[name] = struct{}{}
	}

	p.FragInf += entry.FragInf
	p.FragVeh += entry.FragVeh
	p.DestroyedVehicles += entry.DestroyedVehicles
	p.Frags = p.FragInf + p.FragVeh + p.DestroyedVehicles
	p.Teamkills += entry.Teamkills

	if entry.Death != nil {
		d := *entry.Death
		d.KillerName = identity.NormalizePlayerName(d.KillerName)
		p.DeathsCount++
		p.Deaths = append(p.Deaths, d)
	}
	for _, v := range entry.Victims {
		v.VictimName = identity.NormalizePlayerName(v.VictimName)
		p.Victims = append(p.Victims, v)
	}
}

func (acc *Accumulator) foldTeam(rec model.MissionRecord, team model.TeamMissionEntry, seen map[string]struct{}) {
	tag := identity.NormalizeTeamTag(team.Tag)

	t, ok := acc.teams[tag]
	if !ok {
		t = &model.TeamAggregate{Tag: tag}
		acc.teams[tag] = t
		acc.teamOrder = append(acc.teamOrder, tag)
	}
	if _, dup := seen[tag]; !dup {
		t.MissionsPlayed++
		seen[tag] = struct{}{}
		if acc.opts.MissionLog {
			t.Missions = append(t.Missions, model.TeamMissionSummary{
				ID:          rec.ID,
				MissionName: rec.Name,
				Map:         rec.Map,
				Date:        rec.Date,
				Frags:       team.Frags,
				Deaths:      team.Deaths,
				Teamkills:   team.Teamkills,
			})
		}
	}

	t.Frags += team.Frags
	t.Teamkills += team.Teamkills
	t.Deaths += team.Deaths
	// Summed across missions, not maxed.
	t.TotalPlayers += team.TotalPlayers
}

// Missions returns the number of missions folded so far.
func (acc Accumulator) Missions() int { return acc.missions }

// Snapshot copies the current totals and derives team scores. The
// accumulator is left untouched and may keep folding.
func (acc Accumulator) Snapshot() model.Snapshot {
	snap := model.Snapshot{
		Players:     make([]model.PlayerAggregate, 0, len(acc.playerOrder)),
		Teams:       make([]model.TeamAggregate, 0, len(acc.teamOrder)),
		Missions:    acc.missions,
		Skipped:     acc.skipped,
		OutOfWindow: acc.outOfWindow,
	}
	for _, name := range acc.playerOrder {
		p := *acc.players[name]
		p.Victims = append([]model.VictimEvent(nil), p.Victims...)
		p.Deaths = append([]model.DeathEvent(nil), p.Deaths...)
		snap.Players = append(snap.Players, p)
	}
	for _, tag := range acc.teamOrder {
		t := *acc.teams[tag]
		t.Missions = append([]model.TeamMissionSummary(nil), t.Missions...)
		t.Score = Score(t.Frags, t.TotalPlayers)
		snap.Teams = append(snap.Teams, t)
	}
	return snap
}

// Score is frags per rostered player, 0 when there are no players.
func Score(frags, totalPlayers int) float64 {
	if totalPlayers == 0 {
		return 0
	}
	return float64(frags) / float64(totalPlayers)
}

// SeasonDocument renders a snapshot as the season summary document.
func SeasonDocument(snap model.Snapshot, w season.Window) model.SeasonSummary {
	return model.SeasonSummary{
		Players:     nonNilPlayers(snap),
		Teams:       snap.TeamMap(),
		SeasonStart: w.Start.Format(season.DateLayout),
		SeasonEnd:   w.End.Format(season.DateLayout),
	}
}

// AllTimeDocument renders a snapshot as the all-time summary document.
func AllTimeDocument(snap model.Snapshot, generated time.Time) model.AllTimeSummary {
	return model.AllTimeSummary{
		Players:       nonNilPlayers(snap),
		Teams:         snap.TeamMap(),
		TotalMissions: snap.Missions,
		DateGenerated: generated.Format("2006-01-02 15:04:05"),
	}
}

func nonNilPlayers(snap model.Snapshot) map[string]model.PlayerAggregate {
	m := snap.PlayerMap()
	for name, p := range m {
		if p.Victims == nil {
			p.Victims = []model.VictimEvent{}
		}
		if p.Deaths == nil {
			p.Deaths = []model.DeathEvent{}
		}
		m[name] = p
	}
	return m
}
