package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-ocap-stats/internal/report"
	"github.com/pable/go-ocap-stats/internal/season"
)

var seasonsHorizon string

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "List season windows",
	Long: `List the season windows from $OCAPSTATS_SEASON_START, each
$OCAPSTATS_SEASON_MONTHS calendar months long, up to the horizon (default now).
The last window is cut short at the horizon.`,
	Args: cobra.NoArgs,
	RunE: runSeasons,
}

func init() {
	seasonsCmd.Flags().StringVar(&seasonsHorizon, "horizon", "", "end of the timeline (YYYY-MM-DD, default now)")
}

func runSeasons(cmd *cobra.Command, args []string) error {
	horizon := time.Now().UTC()
	if seasonsHorizon != "" {
		t, err := time.ParseInLocation(season.DateLayout, seasonsHorizon, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid --horizon %q: %w", seasonsHorizon, err)
		}
		horizon = t
	}
	windows := cfg.Windows(horizon)
	if len(windows) == 0 {
		fmt.Fprintf(os.Stdout, "No seasons: start %s is not before %s.\n",
			cfg.SeasonStart.Format(season.DateLayout), horizon.Format(season.DateLayout))
		return nil
	}
	var current season.Window
	if i, ok := season.Find(windows, horizon.AddDate(0, 0, -1)); ok {
		current = windows[i]
	}
	report.PrintWindows(os.Stdout, windows, current)
	return nil
}
