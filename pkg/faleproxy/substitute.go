package faleproxy

import "strings"

// Substitution replaces every literal, case-sensitive occurrence of Match.
type Substitution struct {
	Match   string `yaml:"match"`
	Replace string `yaml:"replace"`
}

// Chain is an ordered list of substitutions. Each one runs over the whole
// string before the next starts, so earlier entries win on overlapping input.
type Chain []Substitution

// DefaultChain returns the Yale -> Fale chain. The all-caps form goes first so
// a later rule never sees part of it. Lowercase "yale" becomes lowercase "fale".
func DefaultChain() Chain {
	return Chain{
		{Match: "YALE", Replace: "FALE"},
		{Match: "Yale", Replace: "Fale"},
		{Match: "yale", Replace: "fale"},
	}
}

// Apply runs the chain over s.
func (c Chain) Apply(s string) string {
	if s == "" {
		return s
	}
	for _, sub := range c {
		if sub.Match == "" {
			continue
		}
		s = strings.ReplaceAll(s, sub.Match, sub.Replace)
	}
	return s
}
