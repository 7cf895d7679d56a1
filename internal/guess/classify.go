package guess

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// FieldType names an importable field type.
type FieldType string

const (
	TypeAll       FieldType = "all"
	TypeID        FieldType = "id"
	TypeInteger   FieldType = "integer"
	TypeChar      FieldType = "char"
	TypeText      FieldType = "text"
	TypeHTML      FieldType = "html"
	TypeFloat     FieldType = "float"
	TypeMonetary  FieldType = "monetary"
	TypeBoolean   FieldType = "boolean"
	TypeDate      FieldType = "date"
	TypeDatetime  FieldType = "datetime"
	TypeSelection FieldType = "selection"
	TypeMany2One  FieldType = "many2one"
	TypeOne2Many  FieldType = "one2many"
	TypeMany2Many FieldType = "many2many"
	TypeBinary    FieldType = "binary"
)

// IsRelational reports whether t points at other records.
func (t FieldType) IsRelational() bool {
	return t == TypeMany2One || t == TypeOne2Many || t == TypeMany2Many
}

// ExternalIDPrefix starts identifiers generated by a previous export.
const ExternalIDPrefix = "__export__"

// catchAll is offered when nothing narrows the guess. Its order carries no meaning.
var catchAll = []FieldType{
	TypeID, TypeText, TypeBoolean, TypeChar, TypeDatetime,
	TypeSelection, TypeMany2One, TypeOne2Many, TypeMany2Many, TypeHTML,
}

// Classifier guesses field types from preview values.
type Classifier struct {
	Catalog    *Catalog
	Currencies CurrencyLookup
}

// NewClassifier returns a classifier over the default catalog.
func NewClassifier(currencies CurrencyLookup) *Classifier {
	return &Classifier{Catalog: DefaultCatalog(), Currencies: currencies}
}

// ClassifyColumn returns the plausible field types for one column's preview
// values. Learned formats are written to opts: the date or date-time pattern
// that matched, and the float separators when they could be established.
// Values beyond opts.PreviewCount are ignored. Classification never fails;
// a value that fits nothing only widens the guess.
func (c *Classifier) ClassifyColumn(values []string, opts *Options) []FieldType {
	if opts == nil {
		opts = &Options{}
	}
	values = trimAll(opts.Limit(values))

	if allEmpty(values) {
		return []FieldType{TypeAll}
	}

	// Unlike the rules below, an empty cell breaks the external id guess.
	if !slices.ContainsFunc(values, func(v string) bool { return !strings.HasPrefix(v, ExternalIDPrefix) }) {
		return []FieldType{TypeID, TypeMany2Many, TypeMany2One, TypeOne2Many}
	}

	if allNonEmpty(values, isDigits) {
		types := []FieldType{
			TypeID, TypeInteger, TypeChar, TypeFloat, TypeMonetary,
			TypeMany2One, TypeMany2Many, TypeOne2Many,
		}
		if allNonEmpty(values, func(v string) bool { return v == "0" || v == "1" }) {
			types = append(types, TypeBoolean)
		}
		return types
	}

	if allNonEmpty(values, isBoolLiteral) {
		return []FieldType{TypeBoolean}
	}

	if c.matchFloat(values, opts) {
		return []FieldType{TypeFloat, TypeMonetary}
	}

	if types := c.matchDateTime(values, opts); types != nil {
		return types
	}

	out := make([]FieldType, len(catchAll))
	copy(out, catchAll)
	return out
}

// ClassifyColumns classifies every column of rows. opts holds one Options
// per column; missing or nil entries are allocated and returned in place.
func (c *Classifier) ClassifyColumns(rows [][]string, width int, opts []*Options) ([][]FieldType, []*Options) {
	if len(opts) < width {
		opts = append(opts, make([]*Options, width-len(opts))...)
	}
	types := make([][]FieldType, width)
	for i := 0; i < width; i++ {
		if opts[i] == nil {
			opts[i] = &Options{}
		}
		types[i] = c.ClassifyColumn(ColumnValues(rows, i), opts[i])
	}
	return types, opts
}

// ColumnValues extracts column index from rows, using "" for short rows.
func ColumnValues(rows [][]string, index int) []string {
	values := make([]string, len(rows))
	for i, row := range rows {
		if index < len(row) {
			values[i] = row[index]
		}
	}
	return values
}

// matchFloat reports whether every non-empty value is a number, optionally
// with a currency symbol. Separators found along the way are committed to
// opts only when the whole column qualifies.
func (c *Classifier) matchFloat(values []string, opts *Options) bool {
	local := opts.Clone()
	var tentThousand, tentDecimal string

	for _, v := range values {
		if v == "" {
			continue
		}
		num, ok := StripCurrency(v, c.Currencies)
		if !ok {
			return false
		}

		thousand, decimal := "", ""
		switch {
		case local.SeparatorsLocked():
			thousand, decimal = local.FloatThousandSeparator, local.FloatDecimalSeparator
		case strings.Count(num, ".") > 1:
			local.LockSeparators(".", ",")
			thousand, decimal = ".", ","
		case strings.Count(num, ",") > 1:
			local.LockSeparators(",", ".")
			thousand, decimal = ",", "."
		case strings.Index(num, ".") > strings.Index(num, ","):
			tentThousand, tentDecimal = ",", "."
			thousand, decimal = ",", "."
		case strings.Index(num, ",") > strings.Index(num, "."):
			tentThousand, tentDecimal = ".", ","
			thousand, decimal = ".", ","
		}

		if _, err := strconv.ParseFloat(replaceSeparators(num, thousand, decimal), 64); err != nil {
			return false
		}
	}

	if local.SeparatorsLocked() {
		opts.LockSeparators(local.FloatThousandSeparator, local.FloatDecimalSeparator)
	} else if tentThousand != "" {
		opts.LockSeparators(tentThousand, tentDecimal)
	}
	return true
}

// matchDateTime tries date patterns, then date-time patterns, each with the
// caller's preferred pattern first. The winner is remembered in opts.
func (c *Classifier) matchDateTime(values []string, opts *Options) []FieldType {
	dates := Candidates(opts.DateFormat, c.Catalog.DatePatterns())
	if p, ok := FindMatchingPattern(c.Catalog, dates, values); ok {
		opts.DateFormat = p
		return []FieldType{TypeDate, TypeDatetime}
	}

	datetimes := c.Catalog.DateTimePatterns()
	if opts.DateFormat != "" || opts.DatetimeFormat != "" {
		datetimes = c.Catalog.dateTimeCandidates(opts.DatetimeFormat, dates)
	}
	if p, ok := FindMatchingPattern(c.Catalog, datetimes, values); ok {
		opts.DatetimeFormat = p
		return []FieldType{TypeDatetime}
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func allEmpty(values []string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}

// allNonEmpty reports whether pred holds for every non-empty value.
func allNonEmpty(values []string, pred func(string) bool) bool {
	for _, v := range values {
		if v != "" && !pred(v) {
			return false
		}
	}
	return true
}

func isDigits(v string) bool {
	for _, r := range v {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return v != ""
}

func isBoolLiteral(v string) bool {
	switch strings.ToLower(v) {
	case "true", "false", "t", "f":
		return true
	}
	return false
}
