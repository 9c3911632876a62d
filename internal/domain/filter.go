package domain

import "strings"

// Filter narrows the cached directory. Empty fields impose no constraint.
type Filter struct {
	// City is matched as a case-insensitive substring after trimming whitespace.
	City string
	// Category must match exactly when set.
	Category string
}

// IsZero reports whether the filter imposes no constraint.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.City) == "" && f.Category == ""
}

// Apply returns the helplines satisfying both predicates, preserving order.
// The input slice is never modified; a zero filter returns it unchanged.
func (f Filter) Apply(helplines []Helpline) []Helpline {
	if f.IsZero() {
		return helplines
	}
	city := strings.ToLower(strings.TrimSpace(f.City))
	out := make([]Helpline, 0, len(helplines))
	for _, h := range helplines {
		if city != "" && !strings.Contains(strings.ToLower(h.City), city) {
			continue
		}
		if f.Category != "" && h.Category != f.Category {
			continue
		}
		out = append(out, h)
	}
	return out
}
