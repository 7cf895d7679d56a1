package core

// validation.go checks a column-to-field mapping before any cell is
// converted, and flags required cells that are empty.

import (
	"fmt"
	"strings"
)

// ValidationError describes a mapping or cell problem.
type ValidationError struct {
	Field   string
	Line    int // 1-based row, 0 when not tied to a row
	Message string
}

func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateMapping checks that every import path exists in tree, that no
// field is mapped twice, and that required top-level fields are present.
// Required fields are not enforced when the external id is mapped, since
// rows may then update existing records.
func ValidateMapping(tree []Field, importFields []string) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool, len(importFields))
	topLevel := make(map[string]bool, len(importFields))
	for _, f := range importFields {
		if seen[f] {
			errs = append(errs, ValidationError{Field: f, Message: "field is mapped to more than one column"})
			continue
		}
		seen[f] = true

		path := strings.Split(f, "/")
		if _, ok := lookupPath(tree, path); !ok {
			errs = append(errs, ValidationError{Field: f, Message: "unknown field"})
			continue
		}
		topLevel[path[0]] = true
	}

	if topLevel["id"] {
		return errs
	}
	for _, f := range tree {
		if f.Required && !topLevel[f.Name] {
			errs = append(errs, ValidationError{Field: f.Name, Message: fmt.Sprintf("missing required field %q (%s)", f.Name, f.Label)})
		}
	}
	return errs
}

// ValidateRequiredCells reports empty cells in columns mapped directly onto
// a required field.
func ValidateRequiredCells(tree []Field, importFields []string, data [][]string) []ValidationError {
	var errs []ValidationError
	for j, name := range importFields {
		f, ok := lookupPath(tree, []string{name})
		if !ok || !f.Required {
			continue
		}
		for i, row := range data {
			if strings.TrimSpace(row[j]) == "" {
				errs = append(errs, ValidationError{Field: name, Line: i + 1, Message: "required field is empty"})
			}
		}
	}
	return errs
}
