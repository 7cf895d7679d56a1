package guess

// catalog.go builds the fixed set of date and date-time patterns the
// classifier tries, and compiles strptime directives into anchored regular
// expressions.

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DatePattern is an ordered triple of strptime directives joined by a separator.
type DatePattern struct {
	Tokens    [3]string
	Separator string
}

// String renders the pattern in strptime form, e.g. "%m/%d/%Y".
func (p DatePattern) String() string {
	return strings.Join(p.Tokens[:], p.Separator)
}

// Separators joining the three date tokens, in catalog order.
var dateSeparators = []string{" ", "/", "-", ""}

// Baseline orderings, all with a four-digit year. MDY must stay ahead of DMY:
// ambiguous values resolve to the first pattern that matches.
var patternBaselines = [][3]string{
	{"%m", "%d", "%Y"},
	{"%d", "%m", "%Y"},
	{"%Y", "%m", "%d"},
	{"%Y", "%d", "%m"},
}

// TimePatterns lists the clock formats appended to date patterns, in the
// order they are tried.
var TimePatterns = []string{
	"%H:%M:%S", "%H:%M", "%H", // 24h
	"%I:%M:%S %p", "%I:%M %p", "%I %p", // 12h
}

// directiveExpr maps strptime directives to range-constrained groups.
var directiveExpr = map[byte]string{
	'd': `(3[0-1]|[1-2]\d|0[1-9]|[1-9]| [1-9])`,
	'H': `(2[0-3]|[0-1]\d|\d)`,
	'I': `(1[0-2]|0[1-9]|[1-9])`,
	'm': `(1[0-2]|0[1-9]|[1-9])`,
	'M': `([0-5]\d|\d)`,
	'S': `(6[0-1]|[0-5]\d|\d)`,
	'y': `(\d\d)`,
	'Y': `(\d\d\d\d)`,
	'p': `(am|pm)`,
}

// DateTriples returns the eight date token orderings: each baseline followed
// by its two-digit-year sibling.
func DateTriples() [][3]string {
	triples := make([][3]string, 0, len(patternBaselines)*2)
	for _, base := range patternBaselines {
		triples = append(triples, base)

		short := base
		for i, tok := range short {
			if tok == "%Y" {
				short[i] = "%y"
			}
		}
		triples = append(triples, short)
	}
	return triples
}

// DatePatterns returns the 32 date patterns in catalog order.
func DatePatterns() []DatePattern {
	triples := DateTriples()
	patterns := make([]DatePattern, 0, len(triples)*len(dateSeparators))
	for _, tokens := range triples {
		for _, sep := range dateSeparators {
			patterns = append(patterns, DatePattern{Tokens: tokens, Separator: sep})
		}
	}
	return patterns
}

// Matcher is a compiled strptime pattern.
type Matcher struct {
	pattern    string
	re         *regexp.Regexp
	directives []byte // one entry per capture group, in order
}

// Pattern returns the strptime pattern the matcher was compiled from.
func (m *Matcher) Pattern() string { return m.pattern }

// Match reports whether the whole of s matches the pattern.
func (m *Matcher) Match(s string) bool {
	return m.re.MatchString(s)
}

// fields returns the captured text per directive, or nil when s does not match.
func (m *Matcher) fields(s string) map[byte]string {
	sub := m.re.FindStringSubmatch(s)
	if sub == nil {
		return nil
	}
	out := make(map[byte]string, len(m.directives))
	for i, d := range m.directives {
		out[d] = sub[i+1]
	}
	return out
}

// Compile converts a strptime pattern into a Matcher. Runs of whitespace in
// the pattern match one or more whitespace characters; the expression is
// anchored at both ends and case-insensitive.
func Compile(pattern string) (*Matcher, error) {
	var (
		b          strings.Builder
		directives []byte
	)
	b.WriteString("(?i)^")

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '%':
			if i+1 >= len(pattern) {
				return nil, fmt.Errorf("compile %q: dangling %%", pattern)
			}
			i++
			d := pattern[i]
			if d == '%' {
				b.WriteString("%")
				continue
			}
			expr, ok := directiveExpr[d]
			if !ok {
				return nil, fmt.Errorf("compile %q: unsupported directive %%%c", pattern, d)
			}
			b.WriteString(expr)
			directives = append(directives, d)
		case isSpace(c):
			for i+1 < len(pattern) && isSpace(pattern[i+1]) {
				i++
			}
			b.WriteString(`\s+`)
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", pattern, err)
	}
	return &Matcher{pattern: pattern, re: re, directives: directives}, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// ExtraPatternCacheSize bounds how many caller-supplied patterns a catalog
// keeps compiled. Least recently used ones are evicted first.
const ExtraPatternCacheSize = 256

// Catalog is the immutable set of compiled date and date-time patterns.
// Patterns outside the catalog (caller preferences) are compiled on first
// use and kept in a bounded LRU; all methods are safe for concurrent use.
type Catalog struct {
	dates     []string
	datetimes []string
	matchers  map[string]*Matcher

	extra *lru.Cache[string, *Matcher]
}

// BuildCatalog compiles every date pattern and every date x time combination.
func BuildCatalog() *Catalog {
	extra, err := lru.New[string, *Matcher](ExtraPatternCacheSize)
	if err != nil {
		panic(err)
	}
	c := &Catalog{matchers: make(map[string]*Matcher), extra: extra}

	for _, p := range DatePatterns() {
		c.dates = append(c.dates, p.String())
	}
	for _, d := range c.dates {
		for _, t := range TimePatterns {
			c.datetimes = append(c.datetimes, d+" "+t)
		}
	}

	for _, list := range [][]string{c.dates, c.datetimes} {
		for _, p := range list {
			m, err := Compile(p)
			if err != nil {
				// Catalog patterns only use known directives.
				panic(err)
			}
			c.matchers[p] = m
		}
	}
	return c
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the process-wide catalog, building it on first use.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = BuildCatalog()
	})
	return defaultCatalog
}

// DatePatterns returns the date patterns in catalog order.
// The returned slice must not be modified.
func (c *Catalog) DatePatterns() []string { return c.dates }

// DateTimePatterns returns the date-time patterns in catalog order.
// The returned slice must not be modified.
func (c *Catalog) DateTimePatterns() []string { return c.datetimes }

// Matcher returns the compiled matcher for pattern, compiling and caching
// patterns that are not part of the catalog.
func (c *Catalog) Matcher(pattern string) (*Matcher, error) {
	if m, ok := c.matchers[pattern]; ok {
		return m, nil
	}
	if m, ok := c.extra.Get(pattern); ok {
		return m, nil
	}
	m, err := Compile(pattern)
	if err != nil {
		return nil, err
	}
	c.extra.Add(pattern, m)
	return m, nil
}

// dateTimeCandidates returns the date-time patterns to try: the preferred
// date-time pattern, then every date candidate combined with every time
// pattern. dateCandidates must start with the preferred date pattern, if any.
func (c *Catalog) dateTimeCandidates(preferred string, dateCandidates []string) []string {
	out := make([]string, 0, len(c.datetimes)+len(TimePatterns)+1)
	seen := make(map[string]bool, cap(out))
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	add(preferred)
	for _, d := range dateCandidates {
		for _, t := range TimePatterns {
			add(d + " " + t)
		}
	}
	return out
}
