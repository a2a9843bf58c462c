package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-ocap-stats/internal/aggregator"
	"github.com/pable/go-ocap-stats/internal/identity"
	"github.com/pable/go-ocap-stats/internal/leaderboard"
	"github.com/pable/go-ocap-stats/internal/model"
	"github.com/pable/go-ocap-stats/internal/report"
	"github.com/pable/go-ocap-stats/internal/season"
	"github.com/pable/go-ocap-stats/internal/storage"
)

var playerKills int

var playerCmd = &cobra.Command{
	Use:   "player <name> [<name>...]",
	Short: "Cross-mission stats for one or more players",
	Long: `Show all-time totals for each named player, a per-season breakdown, their
longest kills and most frequent victims. Names are normalized the same way as
during aggregation, so "[abc]Rook" and "[ABC]Rook" are the same player.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlayer,
}

func init() {
	playerCmd.Flags().IntVar(&playerKills, "kills", 5, "number of longest kills and top victims to list")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	engine, err := awardEngine()
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return printPlayers(os.Stdout, db, engine, args)
}

func printPlayers(w io.Writer, db *storage.DB, engine leaderboard.Engine, names []string) error {
	records, err := loadRecords(db)
	if err != nil {
		return err
	}
	all := computeAllTime(records, engine)

	windows := seasonWindows()
	seasons := make([]model.Snapshot, len(windows))
	for i := range windows {
		seasons[i] = aggregator.Run(records, aggregator.Options{Window: &windows[i]})
	}

	for _, raw := range names {
		name := identity.NormalizePlayerName(raw)
		p, ok := all.Snapshot.Player(name)
		if !ok {
			fmt.Fprintf(os.Stderr, "no data for player %q\n", name)
			continue
		}

		status := "not eligible for awards"
		if engine.Eligible(&p) {
			status = "eligible for awards"
		}
		fmt.Fprintf(w, "\n=== %s (%s) ===\n\n", name, status)
		report.PrintPlayerAggregates(w, []model.PlayerAggregate{p}, 0, nil)

		printPlayerSeasons(w, name, windows, seasons)

		fmt.Fprintf(w, "\n--- Longest kills ---\n\n")
		report.PrintLongestKills(w, p.Victims, playerKills)
		fmt.Fprintf(w, "\n--- Most killed ---\n\n")
		report.PrintVictimCounts(w, p.Victims, playerKills)
	}
	return nil
}

func printPlayerSeasons(w io.Writer, name string, windows []season.Window, seasons []model.Snapshot) {
	table := report.NewTable(w)
	table.Header("SEASON", "MISSIONS", "FRAGS", "INF", "VEH", "DESTR", "TK", "DEATHS", "F/M")
	rows := 0
	for i := range seasons {
		p, ok := seasons[i].Player(name)
		if !ok {
			continue
		}
		table.Append(
			windows[i].Label(),
			strconv.Itoa(p.MissionsPlayed),
			strconv.Itoa(p.Frags),
			strconv.Itoa(p.FragInf),
			strconv.Itoa(p.FragVeh),
			strconv.Itoa(p.DestroyedVehicles),
			strconv.Itoa(p.Teamkills),
			strconv.Itoa(p.DeathsCount),
			fmt.Sprintf("%.2f", p.FragsPerMission()),
		)
		rows++
	}
	if rows == 0 {
		return
	}
	fmt.Fprintf(w, "\n--- By season ---\n\n")
	table.Render()
}
