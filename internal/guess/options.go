package guess

// DefaultPreviewCount is the number of rows the classifier looks at when the
// caller does not say otherwise.
const DefaultPreviewCount = 10

// Default separators used when nothing could be inferred.
const (
	DefaultThousandSeparator = " "
	DefaultDecimalSeparator  = "."
)

// Options carries the formats learned for one column across the preview and
// the import pass. Classification fills in the fields it discovers; the
// import pass reads them back. An Options value must not be shared between
// columns that are classified concurrently.
type Options struct {
	DateFormat             string `json:"date_format,omitempty"`
	DatetimeFormat         string `json:"datetime_format,omitempty"`
	FloatThousandSeparator string `json:"float_thousand_separator,omitempty"`
	FloatDecimalSeparator  string `json:"float_decimal_separator,omitempty"`
	PreviewCount           int    `json:"preview_count,omitempty"`
}

// Clone returns an independent copy. A nil receiver yields empty options.
func (o *Options) Clone() *Options {
	if o == nil {
		return &Options{}
	}
	c := *o
	return &c
}

// Overlay copies every non-empty field of src onto o.
func (o *Options) Overlay(src Options) {
	if src.DateFormat != "" {
		o.DateFormat = src.DateFormat
	}
	if src.DatetimeFormat != "" {
		o.DatetimeFormat = src.DatetimeFormat
	}
	if src.FloatThousandSeparator != "" {
		o.FloatThousandSeparator = src.FloatThousandSeparator
	}
	if src.FloatDecimalSeparator != "" {
		o.FloatDecimalSeparator = src.FloatDecimalSeparator
	}
	if src.PreviewCount > 0 {
		o.PreviewCount = src.PreviewCount
	}
}

// SeparatorsLocked reports whether both float separators are fixed.
func (o *Options) SeparatorsLocked() bool {
	return o != nil && o.FloatThousandSeparator != "" && o.FloatDecimalSeparator != ""
}

// LockSeparators fixes the thousands and decimal separators.
func (o *Options) LockSeparators(thousand, decimal string) {
	o.FloatThousandSeparator = thousand
	o.FloatDecimalSeparator = decimal
}

// Limit truncates values to the preview count.
func (o *Options) Limit(values []string) []string {
	n := DefaultPreviewCount
	if o != nil && o.PreviewCount > 0 {
		n = o.PreviewCount
	}
	if len(values) > n {
		return values[:n]
	}
	return values
}
