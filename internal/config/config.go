// Package config loads run settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/pable/go-ocap-stats/internal/identity"
	"github.com/pable/go-ocap-stats/internal/leaderboard"
	"github.com/pable/go-ocap-stats/internal/ocap"
	"github.com/pable/go-ocap-stats/internal/season"
)

// Defaults.
const (
	DefaultSeasonStart  = "2025-01-01"
	DefaultSeasonMonths = 3
)

// Config holds everything a run needs beyond the command line.
type Config struct {
	DBPath       string
	SeasonStart  time.Time
	SeasonMonths int
	MinMissions  int
	TagPattern   string
	TagPrefixes  []string
	RosterPath   string
	OCAPURL      string
	LogLevel     string
}

// Load reads envFile (when non-empty, or ".env" if present) and then the
// environment. Invalid values are returned as errors.
func Load(envFile string, logger zerolog.Logger) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	var errs []error
	cfg := &Config{
		DBPath:      getEnv("OCAPSTATS_DB", DefaultDBPath()),
		TagPattern:  getEnv("OCAPSTATS_TAG_PATTERN", identity.DefaultTagPattern),
		TagPrefixes: splitList(getEnv("OCAPSTATS_TAG_PREFIXES", strings.Join(identity.DefaultTagPrefixes, ","))),
		RosterPath:  getEnv("OCAPSTATS_ROSTER", ""),
		OCAPURL:     getEnv("OCAPSTATS_OCAP_URL", ocap.DefaultBaseURL),
		LogLevel:    getEnv("OCAPSTATS_LOG_LEVEL", "info"),
	}

	start := getEnv("OCAPSTATS_SEASON_START", DefaultSeasonStart)
	if t, err := time.ParseInLocation(season.DateLayout, start, time.UTC); err != nil {
		errs = append(errs, fmt.Errorf("OCAPSTATS_SEASON_START %q: want YYYY-MM-DD", start))
	} else {
		cfg.SeasonStart = t
	}
	cfg.SeasonMonths = getInt("OCAPSTATS_SEASON_MONTHS", DefaultSeasonMonths, 1, &errs)
	cfg.MinMissions = getInt("OCAPSTATS_MIN_MISSIONS", leaderboard.DefaultMinMissions, 0, &errs)
	if _, err := identity.NewTagMatcher(cfg.TagPattern, cfg.TagPrefixes...); err != nil {
		errs = append(errs, fmt.Errorf("OCAPSTATS_TAG_PATTERN: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Debug().
		Str("db_path", cfg.DBPath).
		Str("season_start", cfg.SeasonStart.Format(season.DateLayout)).
		Int("season_months", cfg.SeasonMonths).
		Int("min_missions", cfg.MinMissions).
		Str("tag_pattern", cfg.TagPattern).
		Strs("tag_prefixes", cfg.TagPrefixes).
		Msg("configuration loaded")
	return cfg, nil
}

// Engine builds the leaderboard engine for these settings.
func (c *Config) Engine() (leaderboard.Engine, error) {
	m, err := identity.NewTagMatcher(c.TagPattern, c.TagPrefixes...)
	if err != nil {
		return leaderboard.Engine{}, err
	}
	return leaderboard.Engine{MinMissions: c.MinMissions, Tags: m}, nil
}

// Windows returns the season windows from SeasonStart up to horizon.
func (c *Config) Windows(horizon time.Time) []season.Window {
	return season.Windows(c.SeasonStart, horizon, c.SeasonMonths)
}

// DefaultDBPath is ~/.ocapstats/stats.db.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".ocapstats", "stats.db")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback, min int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < min {
		*errs = append(*errs, fmt.Errorf("%s %q: want an integer >= %d", key, v, min))
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
