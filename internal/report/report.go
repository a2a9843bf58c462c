package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-ocap-stats/internal/classifier"
	"github.com/pable/go-ocap-stats/internal/model"
	"github.com/pable/go-ocap-stats/internal/season"
)

// NewTable returns a table with right-aligned rows and centred headers.
func NewTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintMissionList prints one row per stored mission.
func PrintMissionList(w io.Writer, missions []model.MissionSummary) {
	table := NewTable(w)
	table.Header("DATE", "ID", "MISSION", "MAP", "PLAYERS", "SQUADS")
	for _, m := range missions {
		table.Append(m.Date, m.ID, m.Name, m.Map, strconv.Itoa(m.Players), strconv.Itoa(m.Teams))
	}
	table.Render()
}

// PrintMissionHeader prints a one-line summary header for the mission.
func PrintMissionHeader(w io.Writer, rec model.MissionRecord) {
	fmt.Fprintf(w, "\nMission: %s  |  Map: %s  |  Date: %s  |  ID: %s  |  Players: %d\n\n",
		rec.Name, rec.Map, rec.Date, rec.ID, len(rec.Players))
}

// PrintMissionPlayers prints each player's counters for one mission, most
// frags first.
func PrintMissionPlayers(w io.Writer, rec model.MissionRecord) {
	players := append([]model.PlayerMissionEntry(nil), rec.Players...)
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].FragTotal() > players[j].FragTotal()
	})

	table := NewTable(w)
	table.Header("NAME", "SIDE", "GROUP", "FRAGS", "INF", "VEH", "DESTR", "TK", "AI", "KILLED BY")
	for _, p := range players {
		killer := "—"
		if p.Death != nil {
			killer = p.Death.KillerName
		}
		table.Append(
			p.Name,
			p.Side,
			p.Group,
			strconv.Itoa(p.FragTotal()),
			strconv.Itoa(p.FragInf),
			strconv.Itoa(p.FragVeh),
			strconv.Itoa(p.DestroyedVehicles),
			strconv.Itoa(p.Teamkills),
			strconv.Itoa(p.AIKills),
			killer,
		)
	}
	table.Render()
}

// PrintMissionTeams prints per-squad counters for one mission.
func PrintMissionTeams(w io.Writer, teams []model.TeamMissionEntry) {
	if len(teams) == 0 {
		fmt.Fprintln(w, "(no squad stats)")
		return
	}
	table := NewTable(w)
	table.Header("SQUAD", "SIDE", "PLAYERS", "FRAGS", "TK", "DEATHS")
	for _, t := range teams {
		table.Append(t.Tag, t.Side, strconv.Itoa(t.TotalPlayers), strconv.Itoa(t.Frags),
			strconv.Itoa(t.Teamkills), strconv.Itoa(t.Deaths))
	}
	table.Render()
}

// PrintWindows lists season windows, marking the one containing now.
func PrintWindows(w io.Writer, windows []season.Window, now season.Window) {
	table := NewTable(w)
	table.Header(" ", "#", "START", "END", "LABEL")
	for i, win := range windows {
		marker := " "
		if win == now {
			marker = ">"
		}
		table.Append(marker, strconv.Itoa(i), win.Start.Format(season.DateLayout),
			win.End.Format(season.DateLayout), win.Label())
	}
	table.Render()
}

// PrintSnapshotHeader prints the run counters of an aggregation.
func PrintSnapshotHeader(w io.Writer, title string, snap model.Snapshot) {
	fmt.Fprintf(w, "\n=== %s ===\n", title)
	fmt.Fprintf(w, "  Missions: %d  |  Players: %d  |  Squads: %d", snap.Missions, len(snap.Players), len(snap.Teams))
	if snap.Skipped > 0 {
		fmt.Fprintf(w, "  |  Skipped (bad date): %d", snap.Skipped)
	}
	fmt.Fprint(w, "\n\n")
}

// PrintPlayerAggregates prints up to limit players ordered by frags. Players
// for whom eligible returns true are marked with "*". limit <= 0 prints all.
func PrintPlayerAggregates(w io.Writer, players []model.PlayerAggregate, limit int, eligible func(*model.PlayerAggregate) bool) {
	idx := make([]int, len(players))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return players[idx[a]].Frags > players[idx[b]].Frags
	})
	if limit > 0 && len(idx) > limit {
		idx = idx[:limit]
	}

	table := NewTable(w)
	table.Header(" ", "NAME", "MISSIONS", "FRAGS", "INF", "VEH", "DESTR", "TK", "DEATHS", "F/M", "K/D")
	for _, i := range idx {
		p := &players[i]
		marker := " "
		if eligible != nil && eligible(p) {
			marker = "*"
		}
		table.Append(
			marker,
			p.Name,
			strconv.Itoa(p.MissionsPlayed),
			strconv.Itoa(p.Frags),
			strconv.Itoa(p.FragInf),
			strconv.Itoa(p.FragVeh),
			strconv.Itoa(p.DestroyedVehicles),
			strconv.Itoa(p.Teamkills),
			strconv.Itoa(p.DeathsCount),
			fmt.Sprintf("%.2f", p.FragsPerMission()),
			fmt.Sprintf("%.2f", p.KDRatio()),
		)
	}
	table.Render()
}

// PrintTeamAggregates prints squads ordered by score.
func PrintTeamAggregates(w io.Writer, teams []model.TeamAggregate) {
	sorted := append([]model.TeamAggregate(nil), teams...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	table := NewTable(w)
	table.Header("SQUAD", "MISSIONS", "PLAYERS", "FRAGS", "TK", "DEATHS", "SCORE")
	for _, t := range sorted {
		table.Append(
			t.Tag,
			strconv.Itoa(t.MissionsPlayed),
			strconv.Itoa(t.TotalPlayers),
			strconv.Itoa(t.Frags),
			strconv.Itoa(t.Teamkills),
			strconv.Itoa(t.Deaths),
			fmt.Sprintf("%.2f", t.Score),
		)
	}
	table.Render()
}

var awardTitles = map[string]string{
	model.AwardBestOverall:         "Best overall (frags/mission)",
	model.AwardBestVehicle:         "Best vehicle (veh frags/mission)",
	model.AwardBestInfantry:        "Best infantry (inf frags/mission)",
	model.AwardBestDestroyer:       "Best destroyer (vehicles)",
	model.AwardTeamkiller:          "Teamkiller (TKs)",
	model.AwardBestSniper:          "Longest infantry kill (m)",
	model.AwardBestVehicleDistance: "Longest vehicle kill (m)",
	model.AwardBestTeam:            "Best squad (frags/player)",
	model.AwardTeamkillTeam:        "Teamkill squad (TKs)",
}

// PrintAwards prints every awarded category in display order.
func PrintAwards(w io.Writer, awards model.Awards) {
	if len(awards) == 0 {
		fmt.Fprintln(w, "(no eligible players: no awards)")
		return
	}
	table := NewTable(w)
	table.Header("CATEGORY", "WINNER", "VALUE", "DETAIL")
	for _, key := range model.AwardCategories {
		a, ok := awards[key]
		if !ok {
			continue
		}
		table.Append(awardTitles[key], a.Name, formatValue(a.Value), awardDetail(a))
	}
	table.Render()
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func awardDetail(a model.AwardEntry) string {
	switch d := a.Details.(type) {
	case model.PlayerTotals:
		return fmt.Sprintf("%d missions, %d frags", d.MissionsPlayed, d.Frags)
	case model.VictimEvent:
		return fmt.Sprintf("%s with %s (mission %s)", d.VictimName, d.Weapon, d.MissionID)
	case model.TeamAggregate:
		return fmt.Sprintf("%d missions, %d players", d.MissionsPlayed, d.TotalPlayers)
	}
	return ""
}

// PrintLongestKills prints a player's n longest parseable kills.
func PrintLongestKills(w io.Writer, victims []model.VictimEvent, n int) {
	type kill struct {
		meters int
		ev     model.VictimEvent
	}
	var kills []kill
	for _, v := range victims {
		if v.FragType == model.FragTeamkill {
			continue
		}
		if m, ok := classifier.ParseDistance(v.Distance); ok {
			kills = append(kills, kill{m, v})
		}
	}
	sort.SliceStable(kills, func(i, j int) bool { return kills[i].meters > kills[j].meters })
	if n > 0 && len(kills) > n {
		kills = kills[:n]
	}

	table := NewTable(w)
	table.Header("DIST", "VICTIM", "WEAPON", "TYPE", "DATE", "MISSION")
	for _, k := range kills {
		table.Append(strconv.Itoa(k.meters)+"m", k.ev.VictimName, k.ev.Weapon,
			string(k.ev.FragType), k.ev.MissionDate, k.ev.MissionID)
	}
	table.Render()
}

// PrintVictimCounts prints the players most often killed by one player.
func PrintVictimCounts(w io.Writer, victims []model.VictimEvent, n int) {
	counts := make(map[string]int)
	var order []string
	for _, v := range victims {
		if v.FragType == model.FragTeamkill {
			continue
		}
		if _, ok := counts[v.VictimName]; !ok {
			order = append(order, v.VictimName)
		}
		counts[v.VictimName]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if n > 0 && len(order) > n {
		order = order[:n]
	}

	table := NewTable(w)
	table.Header("VICTIM", "KILLS")
	for _, name := range order {
		table.Append(name, strconv.Itoa(counts[name]))
	}
	table.Render()
}
