package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/importguess/internal/guess"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "invalid number cell", err: &guess.ValueError{Column: "amount", Line: 2, Value: "abc", Err: guess.ErrInvalidNumber}, wantCode: "VAL002"},
		{name: "invalid date cell", err: &guess.ValueError{Column: "date", Line: 1, Value: "x", Err: fmt.Errorf("bad: %w", guess.ErrInvalidDate)}, wantCode: "VAL001"},
		{name: "no learned format", err: &guess.ValueError{Column: "date", Line: 1, Value: "x", Err: guess.ErrNoFormat}, wantCode: "VAL006"},
		{name: "required cell empty", err: ValidationError{Field: "name", Line: 3, Message: "required field is empty"}, wantCode: "VAL003"},
		{name: "missing required field", err: ValidationError{Field: "name", Message: `missing required field "name" (Name)`}, wantCode: "VAL004"},
		{name: "unknown field", err: ValidationError{Field: "nope", Message: "unknown field"}, wantCode: "VAL005"},
		{name: "nothing mapped", err: ErrNoFieldsMapped, wantCode: "VAL007"},
		{name: "duplicate mapping", err: ValidationError{Field: "name", Message: "field is mapped to more than one column"}, wantCode: "VAL008"},
		{name: "file too large", err: fmt.Errorf("%w: 200 bytes exceeds 100", ErrFileTooLarge), wantCode: "FILE001"},
		{name: "unsupported format", err: ErrUnsupportedFormat, wantCode: "FILE002"},
		{name: "empty file", err: ErrEmptyFile, wantCode: "FILE005"},
		{name: "invalid csv", err: errors.New("invalid csv: record on line 2: wrong number of fields"), wantCode: "FILE006"},
		{name: "session expired", err: ErrSessionNotFound, wantCode: "IMP001"},
		{name: "busy", err: ErrTooManyImports, wantCode: "IMP002"},
		{name: "unknown model", err: fmt.Errorf("%w: res.nope", ErrUnknownModel), wantCode: "IMP003"},
		{name: "deadline before generic timeout", err: context.DeadlineExceeded, wantCode: "IMP005"},
		{name: "duplicate key", err: errors.New("ERROR: duplicate key value violates unique constraint"), wantCode: "DB001"},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), wantCode: "DB004"},
		{name: "io timeout", err: errors.New("read tcp: i/o timeout"), wantCode: "DB006"},
		{name: "pg unique violation", err: fmt.Errorf("copy: %w", &pgconn.PgError{Code: "23505", Message: "conflict"}), wantCode: "DB001"},
		{name: "pg deadlock", err: &pgconn.PgError{Code: "40P01"}, wantCode: "DB007"},
		{name: "pg unmapped state falls back to text", err: &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}, wantCode: "ERR000"},
		{name: "sentinel wins over text", err: fmt.Errorf("redis timeout: %w", ErrSessionNotFound), wantCode: "IMP001"},
		{name: "unknown error returns default", err: errors.New("some random internal error"), wantCode: "ERR000"},
		{name: "case insensitive matching", err: errors.New("DUPLICATE KEY value violates"), wantCode: "DB001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrSessionNotFound)

	expected := "Import session not found (Code: IMP001). The upload may have expired. Please upload the file again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error is not user facing", err: nil, want: false},
		{name: "known error is user facing", err: ErrEmptyFile, want: true},
		{name: "unknown error is not user facing", err: errors.New("random internal error xyz"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("load: %w", ErrTooManyImports)
		userErr := NewUserError(techErr)

		if userErr.Error() != "System is busy processing other imports" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrTooManyImports) {
			t.Error("Unwrap() should return original error")
		}
	})
}
