package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q): want %s, got %s", in, want, got)
		}
	}
}

func TestNewTo_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewTo(&buf, "warn")
	log.Info().Msg("hidden")
	log.Warn().Str("file", "a.json").Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") || !strings.Contains(out, "a.json") {
		t.Errorf("unexpected output %q", out)
	}
}
