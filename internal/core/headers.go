package core

// headers.go matches file headers to importable fields.

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultFuzzyThreshold is the minimum label similarity for a fuzzy match.
const DefaultFuzzyThreshold = 0.8

// HeaderMatcher resolves a header to a path in a field tree.
type HeaderMatcher struct {
	Saved          map[string]string // lower-cased header -> field path
	FuzzyThreshold float64
}

// MatchHeaders returns, per header index, the field path it maps to.
// Headers with no match are absent from the result.
func (m HeaderMatcher) MatchHeaders(fields []Field, headers []string) map[int][]string {
	matches := make(map[int][]string)
	for i, header := range headers {
		if path := m.Saved[strings.ToLower(header)]; path != "" {
			matches[i] = strings.Split(path, "/")
			continue
		}
		var names []string
		for _, f := range m.matchHeader(header, fields) {
			names = append(names, f.Name)
		}
		if len(names) > 0 {
			matches[i] = names
		}
	}
	return matches
}

// matchHeader returns the fields to traverse for header, or nil.
// A technical name wins over a label. A header containing '/' is walked
// one segment at a time through sub-fields.
func (m HeaderMatcher) matchHeader(header string, fields []Field) []Field {
	lower := strings.ToLower(strings.TrimSpace(header))
	if lower == "" {
		return nil
	}

	var byLabel *Field
	for i := range fields {
		f := &fields[i]
		if lower == strings.ToLower(f.Name) {
			return []Field{*f}
		}
		if byLabel == nil && lower == strings.ToLower(f.Label) {
			byLabel = f
		}
	}
	if byLabel != nil {
		return []Field{*byLabel}
	}

	if strings.Contains(header, "/") {
		var traversal []Field
		sub := fields
		for _, section := range strings.Split(header, "/") {
			match := m.matchHeader(section, sub)
			if len(match) == 0 {
				return nil
			}
			traversal = append(traversal, match[0])
			sub = match[0].Fields
		}
		return traversal
	}

	if f, ok := m.fuzzy(lower, fields); ok {
		return []Field{f}
	}
	return nil
}

// fuzzy returns the field whose label is most similar to header, if the
// similarity reaches the threshold. Ties keep the earlier field.
func (m HeaderMatcher) fuzzy(header string, fields []Field) (Field, bool) {
	threshold := m.FuzzyThreshold
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	if threshold > 1 {
		return Field{}, false
	}

	var (
		best      Field
		bestScore float64
	)
	for _, f := range fields {
		for _, candidate := range []string{f.Label, f.Name} {
			score := similarity(header, strings.ToLower(candidate))
			if score > bestScore {
				best, bestScore = f, score
			}
		}
	}
	return best, bestScore >= threshold
}

// similarity is 1 minus the edit distance over the longer length.
func similarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// hasRelationalPath reports whether any header or match spans more than one
// level of the field tree.
func hasRelationalPath(headers []string, matches map[int][]string) bool {
	for _, h := range headers {
		if strings.Contains(h, "/") {
			return true
		}
	}
	for _, m := range matches {
		if len(m) > 1 {
			return true
		}
	}
	return false
}
