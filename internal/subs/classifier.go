// Package subs classifies transaction descriptions against a fixed table of
// recurring-subscription patterns.
//
// Both the per-pattern classifier and the combined "matches anything" matcher
// are derived from the same table, so the two can never disagree about what
// counts as a subscription. User exclusions are a separate, literal-substring
// matcher composed with the table by callers.
package subs

import (
	"regexp"
	"strings"
)

type compiledPattern struct {
	Pattern
	re *regexp.Regexp
}

var (
	table          []compiledPattern
	defaultMatcher *regexp.Regexp
)

func init() {
	table = make([]compiledPattern, len(patterns))
	for i, p := range patterns {
		table[i] = compiledPattern{Pattern: p, re: regexp.MustCompile(`(?i)` + p.expr)}
	}
	defaultMatcher = BuildMatcher(nil)
}

// Classify returns the key of the first pattern (in table order) matching
// the description, or "" when nothing matches.
func Classify(description string) string {
	for _, p := range table {
		if p.re.MatchString(description) {
			return p.Key
		}
	}
	return ""
}

// IsSubscription reports whether the description matches any pattern.
func IsSubscription(description string) bool {
	return Classify(description) != ""
}

// Matcher returns the combined matcher over the full table.
func Matcher() *regexp.Regexp {
	return defaultMatcher
}

// BuildMatcher returns a single matcher equivalent to "matches any pattern
// whose key is not in excludedKeys". Unknown keys are ignored. When every
// pattern is excluded the result is nil, meaning "matches nothing".
func BuildMatcher(excludedKeys []string) *regexp.Regexp {
	excluded := make(map[string]struct{}, len(excludedKeys))
	for _, k := range excludedKeys {
		excluded[k] = struct{}{}
	}

	var parts []string
	for _, p := range patterns {
		if _, skip := excluded[p.Key]; skip {
			continue
		}
		parts = append(parts, p.expr)
	}
	if len(parts) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)` + strings.Join(parts, "|"))
}

// BuildExclusionMatcher returns a matcher for descriptions containing any of
// the given strings as a case-insensitive literal substring. Returns nil for
// empty input, meaning "no exclusion applies".
func BuildExclusionMatcher(descriptions []string) *regexp.Regexp {
	var quoted []string
	for _, d := range descriptions {
		if d == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(d))
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)` + strings.Join(quoted, "|"))
}
