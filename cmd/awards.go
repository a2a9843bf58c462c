package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ocap-stats/internal/pipeline"
	"github.com/pable/go-ocap-stats/internal/report"
)

var (
	awardsJobs int
	awardsOut  string
)

var awardsCmd = &cobra.Command{
	Use:   "awards",
	Short: "Compute awards for every season",
	Long: `Aggregate every season window independently and print each season's awards.
Seasons are computed concurrently; the output is identical to running them
one at a time.`,
	Args: cobra.NoArgs,
	RunE: runAwards,
}

func init() {
	awardsCmd.Flags().IntVarP(&awardsJobs, "jobs", "j", 4, "seasons computed in parallel")
	awardsCmd.Flags().StringVarP(&awardsOut, "out", "o", "", "write {label: awards} JSON to this file (- for stdout)")
}

func runAwards(cmd *cobra.Command, args []string) error {
	windows := seasonWindows()
	if len(windows) == 0 {
		fmt.Fprintln(os.Stdout, "No seasons configured up to now.")
		return nil
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
	results, err := pipeline.ComputeSeasons(cmd.Context(), records, windows, engine, awardsJobs)
	if err != nil {
		return err
	}

	if awardsOut != "" {
		doc := make(map[string]any, len(results))
		for _, r := range results {
			doc[r.Window.Label()] = r.Awards
		}
		if err := writeJSON(awardsOut, doc); err != nil {
			return err
		}
		if awardsOut == "-" {
			return nil
		}
	}

	for _, r := range results {
		logSnapshot(r.Window.Label(), r.Snapshot)
		fmt.Fprintf(os.Stdout, "\n=== Season %d: %s (%d missions) ===\n\n", r.Index, r.Window.Label(), r.Snapshot.Missions)
		report.PrintAwards(os.Stdout, r.Awards)
	}
	return nil
}
