package faleproxy

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultPassthroughSchemes lists the schemes whose URLs are never rewritten.
var DefaultPassthroughSchemes = []string{"http", "https", "mailto", "data"}

// Absolutizer resolves attribute URLs against the page they were fetched from.
type Absolutizer struct {
	base        *url.URL
	passthrough []string
}

// NewAbsolutizer returns an Absolutizer for base. A nil or empty scheme list
// falls back to DefaultPassthroughSchemes.
func NewAbsolutizer(base *url.URL, passthrough []string) *Absolutizer {
	if len(passthrough) == 0 {
		passthrough = DefaultPassthroughSchemes
	}
	schemes := make([]string, 0, len(passthrough))
	for _, s := range passthrough {
		schemes = append(schemes, normalizeScheme(s))
	}
	return &Absolutizer{base: base, passthrough: schemes}
}

// Passthrough reports whether ref uses one of the passthrough schemes.
func (a *Absolutizer) Passthrough(ref string) bool {
	lower := strings.ToLower(strings.TrimSpace(ref))
	for _, scheme := range a.passthrough {
		if strings.HasPrefix(lower, scheme+":") {
			return true
		}
	}
	return false
}

// Absolutize returns ref resolved against the base URL. Empty and passthrough
// values come back untouched. On a parse failure ref is returned as-is along
// with the error, so callers can log and move on.
func (a *Absolutizer) Absolutize(ref string) (string, error) {
	if strings.TrimSpace(ref) == "" || a.Passthrough(ref) {
		return ref, nil
	}
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref, fmt.Errorf("resolve %q against %s: %w", ref, a.base, err)
	}
	return a.base.ResolveReference(u).String(), nil
}

func normalizeScheme(s string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ":")
}
