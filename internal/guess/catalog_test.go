package guess

import (
	"fmt"
	"testing"
)

func TestDatePatterns_Catalog(t *testing.T) {
	c := DefaultCatalog()

	if got := len(c.DatePatterns()); got != 32 {
		t.Fatalf("len(DatePatterns) = %d, want 32", got)
	}
	if got := len(c.DateTimePatterns()); got != 32*len(TimePatterns) {
		t.Fatalf("len(DateTimePatterns) = %d, want %d", got, 32*len(TimePatterns))
	}
	if got := c.DatePatterns()[0]; got != "%m %d %Y" {
		t.Errorf("first date pattern = %q, want %%m %%d %%Y", got)
	}
	if got := c.DateTimePatterns()[0]; got != "%m %d %Y %H:%M:%S" {
		t.Errorf("first datetime pattern = %q", got)
	}
}

func TestDatePatterns_MonthFirstPrecedesDayFirst(t *testing.T) {
	index := make(map[string]int)
	for i, p := range DefaultCatalog().DatePatterns() {
		index[p] = i
	}
	for _, sep := range dateSeparators {
		mdy := "%m" + sep + "%d" + sep + "%Y"
		dmy := "%d" + sep + "%m" + sep + "%Y"
		if index[mdy] >= index[dmy] {
			t.Errorf("separator %q: %s at %d, %s at %d", sep, mdy, index[mdy], dmy, index[dmy])
		}
	}
}

func TestDateTriples(t *testing.T) {
	triples := DateTriples()
	if len(triples) != 8 {
		t.Fatalf("len = %d, want 8", len(triples))
	}
	if triples[1] != [3]string{"%m", "%d", "%y"} {
		t.Errorf("triples[1] = %v, want two-digit-year sibling of MDY", triples[1])
	}
	if triples[6] != [3]string{"%Y", "%d", "%m"} {
		t.Errorf("triples[6] = %v", triples[6])
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		value   string
		want    bool
	}{
		{"padded month day", "%m/%d/%Y", "01/02/2020", true},
		{"unpadded month day", "%m/%d/%Y", "1/2/2020", true},
		{"month out of range", "%m/%d/%Y", "13/02/2020", false},
		{"day out of range", "%d/%m/%Y", "32/01/2020", false},
		{"space padded day", "%d/%m/%Y", " 5/01/2020", true},
		{"two digit year", "%d-%m-%y", "05-01-20", true},
		{"four digit year against short", "%d-%m-%y", "05-01-2020", false},
		{"anchored", "%Y-%m-%d", "2020-01-02x", false},
		{"whitespace run", "%m %d %Y", "01   02 2020", true},
		{"tab counts as whitespace", "%m %d %Y", "01\t02 2020", true},
		{"upper case meridiem", "%I:%M %p", "3:04 PM", true},
		{"lower case meridiem", "%I %p", "11 am", true},
		{"hour 24 rejected", "%H:%M", "24:00", false},
		{"minute 60 rejected", "%H:%M", "10:60", false},
		{"leap second allowed", "%H:%M:%S", "23:59:60", true},
		{"literal dot quoted", "%d.%m.%Y", "01x02x2020", false},
		{"literal percent", "%d%%", "12%", true},
		{"empty separator", "%Y%m%d", "20200102", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compile(tt.pattern)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.pattern, err)
			}
			if got := m.Match(tt.value); got != tt.want {
				t.Errorf("Compile(%q).Match(%q) = %v, want %v", tt.pattern, tt.value, got, tt.want)
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	for _, pattern := range []string{"%Q", "%Y-%", "%b %d"} {
		if _, err := Compile(pattern); err == nil {
			t.Errorf("Compile(%q) expected error", pattern)
		}
	}
}

func TestCatalog_MatcherCachesExtraPatterns(t *testing.T) {
	c := BuildCatalog()

	m1, err := c.Matcher("%d.%m.%Y")
	if err != nil {
		t.Fatalf("Matcher error: %v", err)
	}
	m2, err := c.Matcher("%d.%m.%Y")
	if err != nil {
		t.Fatalf("Matcher error: %v", err)
	}
	if m1 != m2 {
		t.Error("expected cached matcher to be reused")
	}
	if m1.Pattern() != "%d.%m.%Y" {
		t.Errorf("Pattern() = %q", m1.Pattern())
	}
	if _, err := c.Matcher("%Q"); err == nil {
		t.Error("expected error for unsupported directive")
	}
}

func TestCatalog_ExtraPatternsAreBounded(t *testing.T) {
	c := BuildCatalog()

	for i := range ExtraPatternCacheSize + 50 {
		pattern := fmt.Sprintf("%%d.%%m.%%Y #%d", i)
		m, err := c.Matcher(pattern)
		if err != nil {
			t.Fatalf("Matcher(%q) error: %v", pattern, err)
		}
		if !m.Match(fmt.Sprintf("25.12.2021 #%d", i)) {
			t.Fatalf("Matcher(%q) rejected its own value", pattern)
		}
	}
	if n := c.extra.Len(); n != ExtraPatternCacheSize {
		t.Errorf("cached %d extra patterns, want %d", n, ExtraPatternCacheSize)
	}

	// Evicted patterns compile again on demand.
	m, err := c.Matcher("%d.%m.%Y #0")
	if err != nil || !m.Match("01.02.2020 #0") {
		t.Errorf("Matcher after eviction = %v, %v", m, err)
	}
	if _, ok := c.matchers["%d.%m.%Y #0"]; ok {
		t.Error("caller pattern leaked into the catalog")
	}
}

func TestCatalog_DateTimeCandidates(t *testing.T) {
	c := DefaultCatalog()

	got := c.dateTimeCandidates("%d/%m/%Y %H:%M", []string{"%d/%m/%Y", "%m/%d/%Y"})
	if got[0] != "%d/%m/%Y %H:%M" {
		t.Errorf("first candidate = %q, want preferred", got[0])
	}
	if want := 2 * len(TimePatterns); len(got) != want {
		t.Errorf("len = %d, want %d (preferred deduplicated)", len(got), want)
	}
	if got[1] != "%d/%m/%Y %H:%M:%S" {
		t.Errorf("second candidate = %q", got[1])
	}
}
