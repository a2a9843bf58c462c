package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-ocap-stats/internal/report"
)

var snapshotsAwards bool

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots [id-prefix]",
	Short: "List saved snapshots, or print one",
	Long: `Without arguments, list snapshots saved with 'season --save' or
'alltime --save'. With an id prefix, print that snapshot's summary JSON
(or its awards with --awards).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSnapshots,
}

func init() {
	snapshotsCmd.Flags().BoolVar(&snapshotsAwards, "awards", false, "print the awards document instead of the summary")
}

func runSnapshots(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 1 {
		s, err := db.GetSnapshot(args[0])
		if err != nil {
			return err
		}
		doc := s.Summary
		if snapshotsAwards {
			doc = s.Awards
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, doc, "", "    "); err != nil {
			return fmt.Errorf("format snapshot: %w", err)
		}
		buf.WriteByte('\n')
		_, err = buf.WriteTo(os.Stdout)
		return err
	}

	list, err := db.ListSnapshots()
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(os.Stdout, "No snapshots saved yet. Use 'ocapstats season --save'.")
		return nil
	}
	table := report.NewTable(os.Stdout)
	table.Header("ID", "KIND", "LABEL", "MISSIONS", "CREATED")
	for _, s := range list {
		table.Append(s.ID, s.Kind, s.Label, strconv.Itoa(s.Missions), s.CreatedAt)
	}
	table.Render()
	return nil
}
