package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ocap-stats/internal/report"
	"github.com/pable/go-ocap-stats/internal/storage"
)

var (
	alltimeOut  string
	alltimeSave bool
	alltimeTop  int
)

var alltimeCmd = &cobra.Command{
	Use:   "alltime",
	Short: "Aggregate every stored mission",
	Long: `Aggregate every stored mission regardless of season. Squad totals include a
per-mission log, written with --out.`,
	Args: cobra.NoArgs,
	RunE: runAlltime,
}

func init() {
	alltimeCmd.Flags().StringVarP(&alltimeOut, "out", "o", "", "write the all-time summary JSON to this file (- for stdout)")
	alltimeCmd.Flags().BoolVar(&alltimeSave, "save", false, "store the summary and awards as a snapshot")
	alltimeCmd.Flags().IntVar(&alltimeTop, "top", 20, "number of players to print (0 = all)")
}

func runAlltime(cmd *cobra.Command, args []string) error {
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
	res := computeAllTime(records, engine)

	if alltimeOut == "-" {
		return writeJSON("-", res.Summary)
	}

	report.PrintSnapshotHeader(os.Stdout, "All time", res.Snapshot)
	report.PrintPlayerAggregates(os.Stdout, res.Snapshot.Players, alltimeTop, engine.Eligible)
	fmt.Fprintln(os.Stdout)
	report.PrintTeamAggregates(os.Stdout, res.Snapshot.Teams)
	fmt.Fprintln(os.Stdout)
	report.PrintAwards(os.Stdout, res.Awards)

	if alltimeOut != "" {
		if err := writeJSON(alltimeOut, res.Summary); err != nil {
			return err
		}
	}
	if alltimeSave {
		id, err := db.SaveSnapshot(storage.SnapshotAllTime, res.Summary.DateGenerated, res.Snapshot.Missions, res.Summary, res.Awards)
		if err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		fmt.Fprintf(os.Stdout, "\nSnapshot saved: %s\n", id)
	}
	return nil
}
