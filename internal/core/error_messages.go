package core

// # Error Codes Reference
//
// Every import message carries a code that users can quote to support.
// Codes are grouped by category:
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid date: a cell does not match the column's date format
//	         Patterns: "invalid date"
//	VAL002 - Invalid number: a cell is not a number in the column's format
//	         Patterns: "invalid number"
//	VAL003 - Required field: a required cell is empty
//	         Patterns: "required field is empty"
//	VAL004 - Missing field: a required field has no column
//	         Patterns: "missing required field"
//	VAL005 - Unknown field: a column is mapped to a field that does not exist
//	         Patterns: "unknown field"
//	VAL006 - No format: no date format could be learned for a date column
//	         Patterns: "no date format"
//	VAL007 - Nothing mapped: every column was left unmapped
//	         Patterns: "no fields mapped"
//	VAL008 - Duplicate mapping: one field is mapped to several columns
//	         Patterns: "mapped to more than one column"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large          Patterns: "file too large"
//	FILE002 - Unsupported format      Patterns: "unsupported file format"
//	FILE003 - Encoding error          Patterns: "encoding error"
//	FILE004 - No file                 Patterns: "no file provided"
//	FILE005 - Empty file              Patterns: "empty file"
//	FILE006 - Invalid CSV             Patterns: "invalid csv"
//	FILE007 - Invalid spreadsheet     Patterns: "open xlsx", "read sheet"
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Session expired          Patterns: "import session not found"
//	IMP002 - System busy              Patterns: "too many imports"
//	IMP003 - Unknown model            Patterns: "unknown model"
//	IMP004 - Request cancelled        Patterns: "context canceled"
//	IMP005 - Request timeout          Patterns: "context deadline exceeded"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key             Patterns: "duplicate key"
//	DB002 - Unique constraint         Patterns: "unique constraint", "violates unique"
//	DB003 - Foreign key               Patterns: "foreign key constraint", "violates foreign key"
//	DB004 - Connection refused        Patterns: "connection refused"
//	DB005 - Connection reset          Patterns: "connection reset"
//	DB006 - Timeout                   Patterns: "timeout"
//	DB007 - Deadlock                  Patterns: "deadlock"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests       Patterns: "rate limit"
//
// ERR000 is the fallback when nothing matches; check the logs for the
// original error.
//
// Wrapped sentinel errors and PostgreSQL SQLSTATEs are recognised before
// the text patterns listed above.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/importguess/internal/guess"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// catalog holds the message shown for each code.
var catalog = map[string]UserMessage{
	"VAL001": {"Invalid date detected", "Check the date format chosen for the column in the preview", "VAL001"},
	"VAL002": {"Invalid number detected", "Check the thousands and decimal separators chosen for the column", "VAL002"},
	"VAL003": {"Required field is empty", "Ensure all required columns have values", "VAL003"},
	"VAL004": {"A required field is not mapped to any column", "Map a column to every required field", "VAL004"},
	"VAL005": {"A column is mapped to a field that does not exist", "Choose another field for the column or leave it unmapped", "VAL005"},
	"VAL006": {"No date format could be determined for a column", "Pick a date format in the import options", "VAL006"},
	"VAL007": {"No column is mapped to a field", "Map at least one column before importing", "VAL007"},
	"VAL008": {"A field is mapped to several columns", "Map each field to a single column", "VAL008"},

	"FILE001": {"File exceeds maximum size limit", "Split the file into smaller chunks", "FILE001"},
	"FILE002": {"File type is not supported", "Upload a CSV or XLSX file", "FILE002"},
	"FILE003": {"File contains invalid characters", "Pick the file's encoding in the import options or save it as UTF-8", "FILE003"},
	"FILE004": {"No file was selected", "Please select a file to upload", "FILE004"},
	"FILE005": {"The uploaded file is empty", "Please upload a file with a header row and data rows", "FILE005"},
	"FILE006": {"File is not a valid CSV", "Check the separator and quoting chosen in the import options", "FILE006"},
	"FILE007": {"Spreadsheet could not be read", "Save the file again as XLSX", "FILE007"},

	"IMP001": {"Import session not found", "The upload may have expired. Please upload the file again", "IMP001"},
	"IMP002": {"System is busy processing other imports", "Please wait a moment and try again", "IMP002"},
	"IMP003": {"Unknown import target", "Choose one of the listed models", "IMP003"},
	"IMP004": {"Request was cancelled", "Please try again", "IMP004"},
	"IMP005": {"Request timed out", "Try importing a smaller file", "IMP005"},

	"DB001": {"A record with this ID already exists", "Check the file for duplicate external ids", "DB001"},
	"DB002": {"This value must be unique but already exists", "Check for duplicate entries in your file", "DB002"},
	"DB003": {"Referenced record does not exist", "Import the referenced records first", "DB003"},
	"DB004": {"Unable to connect to database", "Please try again in a few moments", "DB004"},
	"DB005": {"Database connection was interrupted", "Please try again", "DB005"},
	"DB006": {"Operation timed out", "Try importing a smaller file or try again later", "DB006"},
	"DB007": {"Database was busy with conflicting operations", "Please try again", "DB007"},

	"RATE001": {"Too many requests", "Please wait a moment before trying again", "RATE001"},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// sentinelCodes are checked with errors.Is before any text matching.
var sentinelCodes = []struct {
	target error
	code   string
}{
	{guess.ErrInvalidDate, "VAL001"},
	{guess.ErrInvalidNumber, "VAL002"},
	{guess.ErrNoFormat, "VAL006"},
	{ErrNoFieldsMapped, "VAL007"},
	{ErrFileTooLarge, "FILE001"},
	{ErrUnsupportedFormat, "FILE002"},
	{ErrEmptyFile, "FILE005"},
	{ErrSessionNotFound, "IMP001"},
	{ErrTooManyImports, "IMP002"},
	{ErrUnknownModel, "IMP003"},
	{context.Canceled, "IMP004"},
	{context.DeadlineExceeded, "IMP005"},
}

// sqlStateCodes maps PostgreSQL SQLSTATEs.
var sqlStateCodes = map[string]string{
	"23505": "DB001",  // unique_violation
	"23503": "DB003",  // foreign_key_violation
	"40P01": "DB007",  // deadlock_detected
	"57014": "IMP005", // query_canceled
}

// textPatterns catch errors that carry no sentinel, such as validation
// messages and driver text. They are matched case-insensitively and the
// first match wins, so specific patterns come before general ones.
var textPatterns = []struct {
	pattern string
	code    string
}{
	{"invalid date", "VAL001"},
	{"invalid number", "VAL002"},
	{"required field is empty", "VAL003"},
	{"missing required field", "VAL004"},
	{"unknown field", "VAL005"},
	{"no date format", "VAL006"},
	{"mapped to more than one column", "VAL008"},
	{"encoding error", "FILE003"},
	{"no file provided", "FILE004"},
	{"invalid csv", "FILE006"},
	{"open xlsx", "FILE007"},
	{"read sheet", "FILE007"},
	{"duplicate key", "DB001"},
	{"unique constraint", "DB002"},
	{"violates unique", "DB002"},
	{"foreign key", "DB003"},
	{"connection refused", "DB004"},
	{"connection reset", "DB005"},
	{"timeout", "DB006"},
	{"deadlock", "DB007"},
	{"rate limit", "RATE001"},
}

// MapError converts a technical error to a user-friendly message. Wrapped
// sentinels and PostgreSQL error codes are recognised first, then known
// text patterns. Anything else yields ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	if code := errorCode(err); code != "" {
		return catalog[code]
	}
	return defaultMessage
}

func errorCode(err error) string {
	for _, s := range sentinelCodes {
		if errors.Is(err, s.target) {
			return s.code
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if code, ok := sqlStateCodes[pgErr.Code]; ok {
			return code
		}
	}

	text := strings.ToLower(err.Error())
	for _, p := range textPatterns {
		if strings.Contains(text, p.pattern) {
			return p.code
		}
	}
	return ""
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a known code rather than ERR000.
func IsUserFacing(err error) bool {
	return err != nil && errorCode(err) != ""
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}
