package stfcdata

import "strings"

// normalizeLookup lowercases, normalizes whitespace/underscore to a single
// space, collapses repeats, then rejoins with underscores. This matches the
// resolver contract used by ship, hostile, and officer lookups.
func normalizeLookup(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	fields := strings.Fields(s)
	return strings.Join(fields, "_")
}

func normalizeClass(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeOfficerLookupKey strips everything but letters/digits and
// lowercases, matching the Monte Carlo driver's officer-name lookup
// convention (tolerant of punctuation/apostrophes in names like
// "B'Elanna Torres").
func normalizeOfficerLookupKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
