// Package prefs canonicalizes stored user preference lists.
package prefs

import "strings"

// Normalize canonicalizes a stored preference list into a sequence of
// trimmed, non-empty category strings.
//
// A single element containing commas is the legacy storage format where the
// whole list was saved as one comma-joined string; it is split and trimmed.
// Order is preserved; sorting happens at cache-key construction.
func Normalize(preferences []string) []string {
	if len(preferences) == 0 {
		return []string{}
	}

	if len(preferences) == 1 && strings.Contains(preferences[0], ",") {
		parts := strings.Split(preferences[0], ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}

	out := make([]string, 0, len(preferences))
	for _, p := range preferences {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
