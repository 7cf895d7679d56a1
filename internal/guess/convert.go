package guess

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Canonical layouts written by the import pass.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

var (
	ErrInvalidNumber = errors.New("invalid number")
	ErrInvalidDate   = errors.New("invalid date")
	ErrNoFormat      = errors.New("no date format learned for column")
)

// ValueError reports a cell that could not be converted during import.
type ValueError struct {
	Column string
	Line   int // 1-based index into the converted rows; importers rewrite it to the file line
	Value  string
	Err    error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("column %q contains incorrect values (line %d: %q): %v", e.Column, e.Line, e.Value, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }

// ParseDate parses value with a strptime date pattern.
func ParseDate(value, format string) (time.Time, error) {
	return DefaultCatalog().parse(value, format)
}

// ParseDateTime parses value with a strptime date-time pattern.
func ParseDateTime(value, format string) (time.Time, error) {
	return DefaultCatalog().parse(value, format)
}

func (c *Catalog) parse(value, format string) (time.Time, error) {
	m, err := c.Matcher(format)
	if err != nil {
		return time.Time{}, err
	}
	f := m.fields(strings.TrimSpace(value))
	if f == nil {
		return time.Time{}, fmt.Errorf("%q does not match %q: %w", value, format, ErrInvalidDate)
	}

	num := func(d byte, def int) int {
		s, ok := f[d]
		if !ok {
			return def
		}
		n, _ := strconv.Atoi(strings.TrimSpace(s))
		return n
	}

	year := num('Y', 1900)
	if s, ok := f['y']; ok {
		yy, _ := strconv.Atoi(s)
		if yy < 69 {
			year = 2000 + yy
		} else {
			year = 1900 + yy
		}
	}
	month := num('m', 1)
	day := num('d', 1)

	hour := num('H', 0)
	if _, ok := f['I']; ok {
		hour = num('I', 0) % 12
		if strings.EqualFold(f['p'], "pm") {
			hour += 12
		}
	}
	minute := num('M', 0)
	sec := num('S', 0)
	if sec > 59 {
		return time.Time{}, fmt.Errorf("%q: second out of range: %w", value, ErrInvalidDate)
	}

	t := time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("%q: day out of range for month: %w", value, ErrInvalidDate)
	}
	return t, nil
}

// NormalizeNumber converts a numeric cell using the separators in opts,
// inferring them from the value when they are not locked.
func NormalizeNumber(value string, opts *Options, lookup CurrencyLookup) (float64, error) {
	thousand, decimal := InferSeparators(value, opts)
	cleaned := replaceSeparators(value, thousand, decimal)
	num, ok := StripCurrency(cleaned, lookup)
	if !ok {
		return 0, ErrInvalidNumber
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, ErrInvalidNumber
	}
	return f, nil
}

// ConvertFloatColumn rewrites column index of rows to canonical decimal
// text. Empty cells are left alone. Every bad cell is reported.
func ConvertFloatColumn(rows [][]string, index int, name string, opts *Options, lookup CurrencyLookup) []error {
	var errs []error
	for i, row := range rows {
		if index >= len(row) {
			continue
		}
		raw := strings.TrimSpace(row[index])
		if raw == "" {
			continue
		}
		f, err := NormalizeNumber(raw, opts, lookup)
		if err != nil {
			errs = append(errs, &ValueError{Column: name, Line: i + 1, Value: row[index], Err: err})
			continue
		}
		row[index] = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return errs
}

// ConvertDateColumn rewrites column index of rows to DateLayout, or to
// DateTimeLayout when kind is TypeDatetime. Date-time columns try the learned
// date-time format first and fall back to the date format.
func ConvertDateColumn(rows [][]string, index int, name string, kind FieldType, opts *Options) []error {
	if opts == nil {
		opts = &Options{}
	}
	formats := []string{opts.DateFormat}
	layout := DateLayout
	if kind == TypeDatetime {
		formats = []string{opts.DatetimeFormat, opts.DateFormat}
		layout = DateTimeLayout
	}

	var errs []error
	for i, row := range rows {
		if index >= len(row) {
			continue
		}
		raw := strings.TrimSpace(row[index])
		if raw == "" {
			continue
		}
		t, err := parseFirst(raw, formats)
		if err != nil {
			errs = append(errs, &ValueError{Column: name, Line: i + 1, Value: row[index], Err: err})
			continue
		}
		row[index] = t.Format(layout)
	}
	return errs
}

func parseFirst(value string, formats []string) (time.Time, error) {
	var lastErr error = ErrNoFormat
	for _, format := range formats {
		if format == "" {
			continue
		}
		t, err := DefaultCatalog().parse(value, format)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
