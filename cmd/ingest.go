package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ocap-stats/internal/record"
	"github.com/pable/go-ocap-stats/internal/squad"
)

var (
	ingestRoster       string
	ingestSkipExisting bool
	ingestJobs         int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.json|dir> [...]",
	Short: "Decode mission records and store them",
	Long: `Decode mission-record JSON files and store them in the database.

Directories are scanned for *.json files. Re-ingesting a mission replaces the
stored copy. Files that fail to decode are reported and skipped.

When a record has no team_stats and a roster is given (--roster or
$OCAPSTATS_ROSTER, a JSON array of squad tags), squad totals are derived from
the tagged players.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestRoster, "roster", "", "JSON file listing squad tags")
	ingestCmd.Flags().BoolVar(&ingestSkipExisting, "skip-existing", false, "leave already stored missions untouched")
	ingestCmd.Flags().IntVarP(&ingestJobs, "jobs", "j", record.DefaultLoadLimit, "parallel decoders")
}

func runIngest(cmd *cobra.Command, args []string) error {
	var paths []string
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return fmt.Errorf("stat %s: %w", arg, err)
		}
		if !fi.IsDir() {
			paths = append(paths, arg)
			continue
		}
		files, err := record.JSONFiles(arg)
		if err != nil {
			return err
		}
		paths = append(paths, files...)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stdout, "No .json files found.")
		return nil
	}

	rosterPath := ingestRoster
	if rosterPath == "" {
		rosterPath = cfg.RosterPath
	}
	var roster squad.Roster
	if rosterPath != "" {
		r, err := squad.LoadRoster(rosterPath)
		if err != nil {
			return err
		}
		roster = r
		log.Debug().Int("tags", len(roster)).Str("path", rosterPath).Msg("roster loaded")
	}

	records, failed, err := record.LoadPaths(cmd.Context(), paths, ingestJobs)
	if err != nil {
		return err
	}
	for _, f := range failed {
		log.Warn().Str("file", f.Path).Err(f.Err).Msg("skipping unreadable mission file")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	stored, skipped, derived := 0, 0, 0
	for i := range records {
		rec := &records[i]
		if rec.ID == "" {
			log.Warn().Str("file", rec.SourceFile).Msg("skipping mission without id")
			skipped++
			continue
		}
		if ingestSkipExisting {
			exists, err := db.MissionExists(rec.ID)
			if err != nil {
				return fmt.Errorf("check mission %s: %w", rec.ID, err)
			}
			if exists {
				skipped++
				continue
			}
		}
		if squad.Fill(rec, roster) {
			derived++
		}
		if err := db.InsertMission(*rec); err != nil {
			return fmt.Errorf("store mission %s: %w", rec.ID, err)
		}
		log.Debug().Str("id", rec.ID).Str("date", rec.Date).Int("players", len(rec.Players)).Msg("mission stored")
		stored++
	}

	log.Info().
		Int("stored", stored).
		Int("skipped", skipped).
		Int("failed", len(failed)).
		Int("derived_squads", derived).
		Msg("ingest finished")
	fmt.Fprintf(os.Stdout, "Stored %d mission(s); %d skipped, %d failed.\n", stored, skipped, len(failed))
	return nil
}
