package normalize

import (
	"strings"
	"unicode"
)

// Normalizer turns raw country strings into canonical join keys using an
// ordered rule list.
type Normalizer struct {
	rules []Rule
}

// New creates a Normalizer with the given rules. Passing nil uses
// DefaultRules.
func New(rules []Rule) *Normalizer {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Normalizer{rules: rules}
}

// Canonical produces the canonical key for a raw country string.
//
// Steps, in order: lowercase and trim, apply the replacement rules in rule
// order, strip punctuation, remove all whitespace. The result is stable:
// Canonical(Canonical(s)) == Canonical(s).
func (n *Normalizer) Canonical(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))

	for _, r := range n.rules {
		s = strings.ReplaceAll(s, r.Pattern, r.Replacement)
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Rules returns the rule list in application order, for auditing.
func (n *Normalizer) Rules() []Rule {
	out := make([]Rule, len(n.rules))
	copy(out, n.rules)
	return out
}

// Canonical normalizes raw with the default rule table.
func Canonical(raw string) string {
	return defaultNormalizer.Canonical(raw)
}

var defaultNormalizer = New(nil)
