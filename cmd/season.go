package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ocap-stats/internal/pipeline"
	"github.com/pable/go-ocap-stats/internal/report"
	"github.com/pable/go-ocap-stats/internal/storage"
)

var (
	seasonOut  string
	seasonSave bool
	seasonTop  int
)

var seasonCmd = &cobra.Command{
	Use:   "season [index|latest]",
	Short: "Aggregate one season and compute its awards",
	Long: `Aggregate the stored missions that fall inside one season window and print
player and squad tables followed by the season awards.

The season is a zero-based index as listed by 'ocapstats seasons', or
"latest" (the default). Players marked "*" are eligible for awards.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSeason,
}

func init() {
	seasonCmd.Flags().StringVarP(&seasonOut, "out", "o", "", "write the season summary JSON to this file (- for stdout)")
	seasonCmd.Flags().BoolVar(&seasonSave, "save", false, "store the summary and awards as a snapshot")
	seasonCmd.Flags().IntVar(&seasonTop, "top", 20, "number of players to print (0 = all)")
}

func runSeason(cmd *cobra.Command, args []string) error {
	arg := ""
	if len(args) == 1 {
		arg = args[0]
	}
	windows := seasonWindows()
	idx, err := pipeline.Select(windows, arg)
	if err != nil {
		return err
	}
	engine, err := awardEngine()
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := loadRecords(db)
	if err != nil {
		return err
	}
	res := pipeline.ComputeSeason(records, idx, windows[idx], engine)
	logSnapshot(res.Window.Label(), res.Snapshot)

	if seasonOut == "-" {
		return writeJSON("-", res.Summary)
	}

	report.PrintSnapshotHeader(os.Stdout, fmt.Sprintf("Season %d: %s", idx, res.Window.Label()), res.Snapshot)
	report.PrintPlayerAggregates(os.Stdout, res.Snapshot.Players, seasonTop, engine.Eligible)
	fmt.Fprintln(os.Stdout)
	report.PrintTeamAggregates(os.Stdout, res.Snapshot.Teams)
	fmt.Fprintln(os.Stdout)
	report.PrintAwards(os.Stdout, res.Awards)

	if seasonOut != "" {
		if err := writeJSON(seasonOut, res.Summary); err != nil {
			return err
		}
	}
	if seasonSave {
		id, err := db.SaveSnapshot(storage.SnapshotSeason, res.Window.Label(), res.Snapshot.Missions, res.Summary, res.Awards)
		if err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		fmt.Fprintf(os.Stdout, "\nSnapshot saved: %s\n", id)
	}
	return nil
}
