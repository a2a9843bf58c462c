package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ocap-stats/internal/report"
	"github.com/pable/go-ocap-stats/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <mission-id>",
	Short: "Show a stored mission's player and squad rows",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return showMission(db, args[0])
}

func showMission(db *storage.DB, id string) error {
	rec, err := db.GetMission(id)
	if err != nil {
		return fmt.Errorf("query mission: %w", err)
	}
	if rec == nil {
		fmt.Fprintf(os.Stderr, "No mission found with id %q\n", id)
		return nil
	}
	report.PrintMissionHeader(os.Stdout, *rec)
	report.PrintMissionPlayers(os.Stdout, *rec)
	fmt.Fprintln(os.Stdout)
	report.PrintMissionTeams(os.Stdout, rec.Teams)
	return nil
}
