package guess

// currency.go strips currency decoration from numeric cells and works out
// which punctuation plays the thousands and decimal roles.

import (
	"regexp"
	"strings"
	"unicode"
)

// floatRun matches a run that looks like a number, sign included.
var floatRun = regexp.MustCompile(`[+-]?[0-9.,]+`)

// CurrencyLookup reports whether a string is a registered currency symbol.
type CurrencyLookup interface {
	IsCurrencySymbol(symbol string) bool
}

// LookupFunc adapts a function to CurrencyLookup.
type LookupFunc func(symbol string) bool

// IsCurrencySymbol calls f.
func (f LookupFunc) IsCurrencySymbol(symbol string) bool { return f(symbol) }

// SymbolSet is a fixed set of currency symbols.
type SymbolSet map[string]struct{}

// NewSymbolSet returns a set holding symbols.
func NewSymbolSet(symbols ...string) SymbolSet {
	s := make(SymbolSet, len(symbols))
	for _, sym := range symbols {
		s[sym] = struct{}{}
	}
	return s
}

// IsCurrencySymbol reports whether symbol is in the set.
func (s SymbolSet) IsCurrencySymbol(symbol string) bool {
	_, ok := s[symbol]
	return ok
}

// StripCurrency removes a currency symbol placed on either side of a number
// and turns accounting parentheses into a leading minus. It returns false
// when the value is not a number optionally paired with a registered symbol.
// The returned number keeps its original separators.
func StripCurrency(value string, lookup CurrencyLookup) (string, bool) {
	value = strings.TrimSpace(value)
	negative := false
	if len(value) >= 2 && strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")") {
		value = value[1 : len(value)-1]
		negative = true
	}

	parts := splitNumeric(value)
	sign := func(s string) string {
		if negative {
			return "-" + s
		}
		return s
	}

	switch len(parts) {
	case 1:
		if floatRun.MatchString(parts[0]) {
			return sign(parts[0]), true
		}
		return "", false
	case 2:
		currencyIndex := 0
		if floatRun.MatchString(parts[0]) {
			currencyIndex = 1
		}
		symbol := strings.TrimSpace(parts[currencyIndex])
		if lookup == nil || !lookup.IsCurrencySymbol(symbol) {
			return "", false
		}
		return sign(parts[1-currencyIndex]), true
	default:
		return "", false
	}
}

// splitNumeric splits s into numeric runs and the text between them,
// dropping empty fragments.
func splitNumeric(s string) []string {
	var parts []string
	last := 0
	for _, loc := range floatRun.FindAllStringIndex(s, -1) {
		if loc[0] > last {
			parts = append(parts, s[last:loc[0]])
		}
		parts = append(parts, s[loc[0]:loc[1]])
		last = loc[1]
	}
	if last < len(s) {
		parts = append(parts, s[last:])
	}
	return parts
}

// InferSeparators guesses the thousands and decimal separators of value.
//
// A pair already locked in opts always wins, so one column never flips
// between conventions. Otherwise, when exactly two distinct non-numeric
// characters occur and the last one occurs once, the more frequent (or, on
// a tie, the earlier) is the thousands separator and the other the decimal
// separator. Failing that, whatever opts holds is used, then the defaults.
func InferSeparators(value string, opts *Options) (thousand, decimal string) {
	if opts.SeparatorsLocked() {
		return opts.FloatThousandSeparator, opts.FloatDecimalSeparator
	}

	var (
		order  []rune
		counts = make(map[rune]int)
		last   rune
	)
	for _, r := range value {
		if strings.ContainsRune("()-+", r) || unicode.Is(unicode.Nd, r) || unicode.Is(unicode.Sc, r) {
			continue
		}
		if counts[r] == 0 {
			order = append(order, r)
		}
		counts[r]++
		last = r
	}

	if len(order) == 2 && counts[last] == 1 {
		first, second := order[0], order[1]
		if counts[second] > counts[first] {
			first, second = second, first
		}
		return string(first), string(second)
	}

	thousand, decimal = DefaultThousandSeparator, DefaultDecimalSeparator
	if opts != nil {
		if opts.FloatThousandSeparator != "" {
			thousand = opts.FloatThousandSeparator
		}
		if opts.FloatDecimalSeparator != "" {
			decimal = opts.FloatDecimalSeparator
		}
	}
	return thousand, decimal
}

// replaceSeparators drops the thousands separator and maps the decimal
// separator to '.'.
func replaceSeparators(value, thousand, decimal string) string {
	if thousand != "" {
		value = strings.ReplaceAll(value, thousand, "")
	}
	if decimal != "" && decimal != "." {
		value = strings.ReplaceAll(value, decimal, ".")
	}
	return value
}
