package guess

// FindMatchingPattern returns the first pattern, in the order given, under
// which every non-empty value matches. A column with no non-empty values
// matches the first pattern; callers should treat that as "no contradiction"
// rather than evidence. Patterns that fail to compile are skipped.
func FindMatchingPattern(c *Catalog, patterns []string, values []string) (string, bool) {
	for _, pattern := range patterns {
		m, err := c.Matcher(pattern)
		if err != nil {
			continue
		}
		if matchesAll(m, values) {
			return pattern, true
		}
	}
	return "", false
}

func matchesAll(m *Matcher, values []string) bool {
	for _, v := range values {
		if v != "" && !m.Match(v) {
			return false
		}
	}
	return true
}

// Candidates returns patterns with preferred moved to the front. An empty
// preferred pattern leaves the list unchanged.
func Candidates(preferred string, patterns []string) []string {
	if preferred == "" {
		return patterns
	}
	out := make([]string, 0, len(patterns)+1)
	out = append(out, preferred)
	for _, p := range patterns {
		if p != preferred {
			out = append(out, p)
		}
	}
	return out
}
