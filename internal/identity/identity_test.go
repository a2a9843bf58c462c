package identity

import "testing"

func TestNormalizePlayerName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"[tag]Player", "[TAG]Player"},
		{"Dw.Hunter", "DW.Hunter"},
		{"dw.Hunter", "dw.Hunter"},
		{"xDw.Hunter", "xDw.Hunter"},
		{"Sniper [abc] and [d3f]", "Sniper [ABC] and [D3F]"},
		{"[]empty", "[]empty"},
		{"Dw.[sub]Name", "DW.[SUB]Name"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizePlayerName(c.in); got != c.want {
			t.Errorf("NormalizePlayerName(%q): want %q, got %q", c.in, c.want, got)
		}
	}
}

func TestNormalizePlayerNameIdempotent(t *testing.T) {
	inputs := []string{
		"[tag]Player", "Dw.Hunter", "[[a]b]", "Dw.", "[ß]x", "Ä[ö]ü", "[a][b][c]", "  spaced [x] ",
	}
	for _, in := range inputs {
		once := NormalizePlayerName(in)
		twice := NormalizePlayerName(once)
		if once != twice {
			t.Errorf("not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestNormalizeTeamTag(t *testing.T) {
	if got := NormalizeTeamTag("abc"); got != "ABC" {
		t.Errorf("want ABC, got %q", got)
	}
	if got := NormalizeTeamTag(""); got != UnknownTeam {
		t.Errorf("empty tag: want %q, got %q", UnknownTeam, got)
	}
}

func TestHasClanTag(t *testing.T) {
	cases := map[string]bool{
		"[ABC]Player": true,
		"[A1]x":       true,
		"DW.Hunter":   true,
		"Dw.Hunter":   false, // only the canonical form counts
		"Player[ABC]": false,
		"[A-B]x":      false,
		"":            false,
	}
	for name, want := range cases {
		if got := HasClanTag(name); got != want {
			t.Errorf("HasClanTag(%q): want %v, got %v", name, want, got)
		}
	}
}

func TestNewTagMatcher(t *testing.T) {
	m, err := NewTagMatcher(`^\{[A-Z]+\}`, "RB.")
	if err != nil {
		t.Fatalf("NewTagMatcher: %v", err)
	}
	if !m.Match("{RED}Bear") || !m.Match("RB.Bear") {
		t.Error("expected custom pattern and prefix to match")
	}
	if m.Match("[ABC]Player") {
		t.Error("default pattern should not apply to a custom matcher")
	}

	if _, err := NewTagMatcher(`[`); err == nil {
		t.Error("expected error for invalid pattern")
	}

	prefixOnly, err := NewTagMatcher("", "DW.")
	if err != nil {
		t.Fatalf("NewTagMatcher: %v", err)
	}
	if !prefixOnly.Match("DW.x") || prefixOnly.Match("[ABC]x") {
		t.Error("prefix-only matcher mismatch")
	}
}
