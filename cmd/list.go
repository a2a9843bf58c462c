package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ocap-stats/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored missions",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	missions, err := db.ListMissions()
	if err != nil {
		return fmt.Errorf("list missions: %w", err)
	}
	if len(missions) == 0 {
		fmt.Fprintln(os.Stdout, "No missions stored yet. Run 'ocapstats ingest <dir>' to add some.")
		return nil
	}
	report.PrintMissionList(os.Stdout, missions)
	return nil
}
