package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ocap-stats/internal/report"
	"github.com/pable/go-ocap-stats/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all missions stored in the database:
mission count, date range, map breakdown, squads and saved snapshots.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return printSummary(db)
}

func printSummary(db *storage.DB) error {
	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalMissions == 0 {
		fmt.Fprintln(os.Stdout, "No missions stored yet. Run 'ocapstats ingest <dir>' to add some.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Missions stored : %d\n", ov.TotalMissions)
	fmt.Fprintf(os.Stdout, "  Date range      : %s → %s\n", ov.EarliestMission, ov.LatestMission)
	fmt.Fprintf(os.Stdout, "  Unique maps     : %d\n", ov.UniqueMaps)
	fmt.Fprintf(os.Stdout, "  Player names    : %d (raw, before normalization)\n", ov.UniquePlayers)
	fmt.Fprintf(os.Stdout, "  Kill events     : %d\n", ov.TotalKills)
	fmt.Fprintf(os.Stdout, "  Snapshots       : %d\n", ov.Snapshots)

	windows := seasonWindows()
	if len(windows) > 0 {
		last := windows[len(windows)-1]
		fmt.Fprintf(os.Stdout, "  Seasons         : %d (current %s)\n", len(windows), last.Label())
	}

	maps, err := db.GetMapCounts()
	if err != nil {
		return fmt.Errorf("get map counts: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Maps ---\n\n")
	mt := report.NewTable(os.Stdout)
	mt.Header("MAP", "MISSIONS")
	for _, m := range maps {
		mt.Append(m.Map, fmt.Sprintf("%d", m.Missions))
	}
	mt.Render()

	// Squad breakdown, only shown when squads were recorded.
	records, err := loadRecords(db)
	if err != nil {
		return err
	}
	engine, err := awardEngine()
	if err != nil {
		return err
	}
	all := computeAllTime(records, engine)
	if len(all.Snapshot.Teams) > 0 {
		fmt.Fprintf(os.Stdout, "\n--- Squads (all time) ---\n\n")
		report.PrintTeamAggregates(os.Stdout, all.Snapshot.Teams)
	}
	return nil
}
