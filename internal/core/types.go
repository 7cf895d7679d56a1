package core

import (
	"time"

	"github.com/JonMunkholm/importguess/internal/guess"
)

// FieldsRecursionLimit bounds how deep one2many fields are expanded.
const FieldsRecursionLimit = 2

// Field describes one importable field.
type Field struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Label    string          `json:"string"`
	Type     guess.FieldType `json:"type"`
	Required bool            `json:"required"`
	Readonly bool            `json:"-"`
	Relation string          `json:"relation,omitempty"`
	Fields   []Field         `json:"fields"`
}

// ModelDefinition describes a model that files can be imported into.
type ModelDefinition struct {
	Key    string  // "res.partner"
	Label  string  // "Contact"
	Fields []Field // Top-level fields, without the synthetic "id"
}

// ModelInfo is the listing view of a model.
type ModelInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Session is an uploaded file waiting to be previewed and imported.
type Session struct {
	ID          string          `json:"id"`
	Model       string          `json:"model"`
	FileName    string          `json:"file_name"`
	ContentType string          `json:"content_type"`
	Data        []byte          `json:"data"`
	Read        ReadOptions     `json:"read"`
	Columns     []guess.Options `json:"columns,omitempty"` // formats learned per column
	CreatedAt   time.Time       `json:"created_at"`
}

// PreviewOptions are the caller's choices for a preview. The embedded
// guess.Options are preferences applied to every column; Formats overrides
// them per column.
type PreviewOptions struct {
	ReadOptions
	guess.Options

	Formats     []guess.Options `json:"formats,omitempty"`
	KeepMatches bool            `json:"keep_matches,omitempty"`
	Fields      []string        `json:"fields,omitempty"`
	Advanced    bool            `json:"advanced,omitempty"`
}

// PreviewResponse is the result of ParsePreview. When the file could not be
// read only Error and RawPreview are set.
type PreviewResponse struct {
	Fields        []Field             `json:"fields,omitempty"`
	Headers       []string            `json:"headers,omitempty"`
	Matches       map[int][]string    `json:"matches,omitempty"`
	HeaderTypes   [][]guess.FieldType `json:"headers_type,omitempty"`
	Preview       [][]string          `json:"preview,omitempty"`
	Options       *PreviewOptions     `json:"options,omitempty"`
	ColumnOptions []guess.Options     `json:"column_options,omitempty"`
	AdvancedMode  bool                `json:"advanced_mode"`

	Error      string `json:"error,omitempty"`
	RawPreview string `json:"raw_preview,omitempty"`
}

// MessageType classifies an import message.
type MessageType string

const (
	MessageError   MessageType = "error"
	MessageWarning MessageType = "warning"
)

// Message reports one problem found while importing.
type Message struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
	Field   string      `json:"field,omitempty"`
	Line    int         `json:"line,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// ImportResult is the outcome of Execute. Rows is the number of records the
// sink accepted; it is zero whenever Messages holds an error.
type ImportResult struct {
	Rows     int       `json:"rows"`
	Messages []Message `json:"messages"`
	DryRun   bool      `json:"dry_run"`
}

// HasErrors reports whether any message is an error.
func (r *ImportResult) HasErrors() bool {
	return r.ErrorCount() > 0
}

// ErrorCount returns the number of error messages.
func (r *ImportResult) ErrorCount() int {
	n := 0
	for _, m := range r.Messages {
		if m.Type == MessageError {
			n++
		}
	}
	return n
}
