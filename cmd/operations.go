package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-ocap-stats/internal/ocap"
	"github.com/pable/go-ocap-stats/internal/report"
	"github.com/pable/go-ocap-stats/internal/season"
)

var (
	opsTag      string
	opsName     string
	opsNewer    string
	opsOlder    string
	opsLimit    int
	opsDownload string
)

var operationsCmd = &cobra.Command{
	Use:   "operations",
	Short: "List operations published on the OCAP server",
	Long: `Query the OCAP server's operations list ($OCAPSTATS_OCAP_URL) and print
the matching operations, newest first. With --download, raw replay files not
already present in the directory are saved there.`,
	Args: cobra.NoArgs,
	RunE: runOperations,
}

func init() {
	operationsCmd.Flags().StringVar(&opsTag, "tag", "", "operation tag filter (e.g. TvT)")
	operationsCmd.Flags().StringVar(&opsName, "name", "", "mission name filter")
	operationsCmd.Flags().StringVar(&opsNewer, "newer", "", "only operations on or after this date (YYYY-MM-DD, default season start)")
	operationsCmd.Flags().StringVar(&opsOlder, "older", "", "only operations before this date (YYYY-MM-DD)")
	operationsCmd.Flags().IntVarP(&opsLimit, "limit", "n", 50, "maximum rows to print (0 = all)")
	operationsCmd.Flags().StringVar(&opsDownload, "download", "", "save replay files into this directory")
}

func parseDay(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(season.DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: %w", flag, value, err)
	}
	return t, nil
}

func runOperations(cmd *cobra.Command, args []string) error {
	newer, err := parseDay("newer", opsNewer)
	if err != nil {
		return err
	}
	if newer.IsZero() {
		newer = cfg.SeasonStart
	}
	older, err := parseDay("older", opsOlder)
	if err != nil {
		return err
	}

	client := ocap.NewClient(cfg.OCAPURL)
	ops, err := client.ListOperations(cmd.Context(), ocap.Filter{Tag: opsTag, Name: opsName, Newer: newer, Older: older})
	if err != nil {
		return fmt.Errorf("list operations: %w", err)
	}
	log.Debug().Int("operations", len(ops)).Str("server", cfg.OCAPURL).Msg("operations fetched")
	if len(ops) == 0 {
		fmt.Fprintln(os.Stdout, "No operations found.")
		return nil
	}

	shown := ops
	if opsLimit > 0 && len(shown) > opsLimit {
		shown = shown[:opsLimit]
	}
	table := report.NewTable(os.Stdout)
	table.Header("DATE", "ID", "MISSION", "MAP", "DURATION", "TAG", "FILE")
	for _, o := range shown {
		table.Append(o.Date, fmt.Sprint(o.ID), o.MissionName, o.WorldName,
			o.Duration().Round(time.Minute).String(), o.Tag, o.Filename)
	}
	table.Render()
	if len(shown) < len(ops) {
		fmt.Fprintf(os.Stdout, "(%d of %d shown)\n", len(shown), len(ops))
	}

	if opsDownload != "" {
		return downloadOperations(cmd, client, ops)
	}
	return nil
}

func downloadOperations(cmd *cobra.Command, client *ocap.Client, ops []ocap.Operation) error {
	if err := os.MkdirAll(opsDownload, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}
	fetched := 0
	for _, o := range ops {
		if o.Filename == "" || filepath.Base(o.Filename) != o.Filename {
			log.Warn().Str("file", o.Filename).Msg("skipping operation with unsafe filename")
			continue
		}
		dest := filepath.Join(opsDownload, o.Filename)
		if _, err := os.Stat(dest); err == nil {
			log.Debug().Str("file", o.Filename).Msg("already downloaded")
			continue
		}
		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("create %s: %w", dest, err)
		}
		n, err := client.Download(cmd.Context(), o.Filename, f)
		f.Close()
		if err != nil {
			os.Remove(dest)
			return err
		}
		log.Info().Str("file", o.Filename).Int64("bytes", n).Msg("replay downloaded")
		fetched++
	}
	fmt.Fprintf(os.Stdout, "Downloaded %d replay file(s) into %s\n", fetched, opsDownload)
	return nil
}
