package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pable/go-ocap-stats/internal/config"
	"github.com/pable/go-ocap-stats/internal/logger"
)

var (
	dbPath   string
	logLevel string
	envFile  string

	cfg *config.Config
	log = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "ocapstats",
	Short: "OCAP mission statistics tool",
	Long: `Aggregate per-mission OCAP statistics into per-player and per-squad totals,
split them into seasons and compute season awards.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default $OCAPSTATS_DB or ~/.ocapstats/stats.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default $OCAPSTATS_LOG_LEVEL or info)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load settings from this .env file")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(seasonsCmd)
	rootCmd.AddCommand(seasonCmd)
	rootCmd.AddCommand(awardsCmd)
	rootCmd.AddCommand(alltimeCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(snapshotsCmd)
	rootCmd.AddCommand(operationsCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// setup loads configuration and builds the logger before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	log = logger.New(logLevel)
	c, err := config.Load(envFile, log)
	if err != nil {
		return err
	}
	if logLevel == "" {
		log = logger.New(c.LogLevel)
	}
	if dbPath == "" {
		dbPath = c.DBPath
	}
	cfg = c
	return nil
}
