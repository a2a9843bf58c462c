// Package identity canonicalizes player names and squad tags so that the same
// person or unit is grouped under one key across missions.
package identity

import (
	"fmt"
	"regexp"
	"strings"
)

// UnknownTeam is the tag used for a squad with no tag at all.
const UnknownTeam = "UNKNOWN"

// DefaultTagPattern recognizes a leading bracketed clan tag such as "[ABC]".
const DefaultTagPattern = `^\[[A-Za-z0-9]+\]`

// DefaultTagPrefixes are canonical clan prefixes recognized as a tag.
var DefaultTagPrefixes = []string{"DW."}

var bracketSegment = regexp.MustCompile(`\[([^\]]+)\]`)

// NormalizePlayerName upper-cases the interior of every bracketed segment and
// rewrites a leading "Dw." to "DW.". Everything else is kept verbatim, and
// the empty name maps to itself.
func NormalizePlayerName(raw string) string {
	if raw == "" {
		return raw
	}
	name := bracketSegment.ReplaceAllStringFunc(raw, func(seg string) string {
		return "[" + strings.ToUpper(seg[1:len(seg)-1]) + "]"
	})
	if strings.HasPrefix(name, "Dw.") {
		name = "DW." + name[len("Dw."):]
	}
	return name
}

// NormalizeTeamTag upper-cases a squad tag; the empty tag becomes UnknownTeam.
func NormalizeTeamTag(raw string) string {
	if raw == "" {
		return UnknownTeam
	}
	return strings.ToUpper(raw)
}

// TagMatcher decides whether a normalized name carries a recognizable clan tag.
type TagMatcher struct {
	pattern  *regexp.Regexp
	prefixes []string
}

// NewTagMatcher compiles pattern; an empty pattern matches only via prefixes.
func NewTagMatcher(pattern string, prefixes ...string) (TagMatcher, error) {
	m := TagMatcher{prefixes: append([]string(nil), prefixes...)}
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return TagMatcher{}, fmt.Errorf("compile tag pattern %q: %w", pattern, err)
		}
		m.pattern = re
	}
	return m, nil
}

// DefaultTagMatcher returns the matcher for DefaultTagPattern and DefaultTagPrefixes.
func DefaultTagMatcher() TagMatcher {
	return TagMatcher{
		pattern:  regexp.MustCompile(DefaultTagPattern),
		prefixes: append([]string(nil), DefaultTagPrefixes...),
	}
}

// Match reports whether name carries a clan tag.
func (m TagMatcher) Match(name string) bool {
	if name == "" {
		return false
	}
	if m.pattern != nil && m.pattern.MatchString(name) {
		return true
	}
	for _, p := range m.prefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// HasClanTag applies the default matcher.
func HasClanTag(name string) bool {
	return defaultMatcher.Match(name)
}

var defaultMatcher = DefaultTagMatcher()
