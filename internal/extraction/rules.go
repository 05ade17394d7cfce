package extraction

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Candidate length bounds, in runes, for a rule capture to be accepted.
const (
	MinCandidateLength = 3
	MaxCandidateLength = 50
)

// Rule captures a probable restaurant name from a cleaned caption. Pattern
// must have at least one capture group; group 1 is the candidate.
type Rule struct {
	Name      string
	Pattern   *regexp.Regexp
	Transform func(string) string
}

// Apply returns the rule's candidate when it matches and passes the length
// bounds.
func (r Rule) Apply(cleaned string) (string, bool) {
	if r.Pattern == nil {
		return "", false
	}
	match := r.Pattern.FindStringSubmatch(cleaned)
	if len(match) < 2 {
		return "", false
	}
	candidate := match[1]
	if r.Transform != nil {
		candidate = r.Transform(candidate)
	}
	candidate = strings.TrimSpace(candidate)
	n := utf8.RuneCountInString(candidate)
	if n < MinCandidateLength || n > MaxCandidateLength {
		return "", false
	}
	return candidate, true
}

// TrimCandidate drops connector punctuation left at either end of a capture.
func TrimCandidate(value string) string {
	return strings.Trim(strings.TrimSpace(value), " -—–'&")
}

// DefaultRules returns the built-in rule cascade in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:      "in-city",
			Pattern:   regexp.MustCompile(`^([\p{Lu}\p{N}][^—–]*?)\s+in\s+\p{Lu}`),
			Transform: TrimCandidate,
		},
		{
			Name:      "at-venue",
			Pattern:   regexp.MustCompile(`(?:^|\s)[Aa]t\s+(\p{Lu}[\p{L}\p{N}'&]*(?:\s+(?:&\s+)?\p{Lu}[\p{L}\p{N}'&]*){0,4})`),
			Transform: TrimCandidate,
		},
		{
			Name:      "em-dash",
			Pattern:   regexp.MustCompile(`^(.+?)\s*[—–]\s*\S`),
			Transform: TrimCandidate,
		},
		{
			Name:      "dash",
			Pattern:   regexp.MustCompile(`^(.+?)\s+-\s+\S`),
			Transform: TrimCandidate,
		},
		{
			Name:      "has-the-best",
			Pattern:   regexp.MustCompile(`(?i)^(.+?)\s+has\s+the\s+best\b`),
			Transform: TrimCandidate,
		},
		{
			Name:      "is-worth",
			Pattern:   regexp.MustCompile(`(?i)\bis\s+(.+?)\s+(?:really\s+)?worth\b`),
			Transform: TrimCandidate,
		},
	}
}

// CompileRules turns configured expressions into rules named custom-1,
// custom-2, and so on. Each expression needs a capture group.
func CompileRules(patterns []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(patterns))
	for i, expr := range patterns {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("extra pattern %d: %w", i+1, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("extra pattern %d: needs a capture group", i+1)
		}
		rules = append(rules, Rule{
			Name:      fmt.Sprintf("custom-%d", i+1),
			Pattern:   re,
			Transform: TrimCandidate,
		})
	}
	return rules, nil
}
