package core

// convert.go prepares file rows for loading: it keeps only the mapped
// columns and rewrites dates and numbers into canonical text using the
// formats learned during the preview.

import (
	"errors"
	"strings"

	"github.com/JonMunkholm/importguess/internal/guess"
)

// ErrNoFieldsMapped is returned when every column is left unmapped.
var ErrNoFieldsMapped = errors.New("no fields mapped: configure at least one field to import")

// selection is the part of a table that gets imported.
type selection struct {
	data    [][]string
	fields  []string // import field per kept column
	indices []int    // file column of each kept column
	lines   []int    // file line of each data row
}

// fileLine maps a 1-based row of data to its line in the file. Numbers
// outside data are returned unchanged.
func (s *selection) fileLine(row int) int {
	if row < 1 || row > len(s.lines) {
		return row
	}
	return s.lines[row-1]
}

// selectColumns keeps the columns that have a field and drops rows whose
// kept cells are all empty. fields is aligned with the file's columns; an
// empty entry skips the column.
func selectColumns(t *Table, fields []string) (*selection, error) {
	sel := &selection{}
	for i, f := range fields {
		if f != "" {
			sel.indices = append(sel.indices, i)
			sel.fields = append(sel.fields, f)
		}
	}
	if len(sel.indices) == 0 {
		return nil, ErrNoFieldsMapped
	}

	for r, row := range t.Rows {
		out := make([]string, len(sel.indices))
		keep := false
		for j, idx := range sel.indices {
			if idx < len(row) {
				out[j] = row[idx]
			}
			if out[j] != "" {
				keep = true
			}
		}
		if !keep {
			continue
		}
		sel.data = append(sel.data, out)
		line := r + 2 // header on line 1
		if r < len(t.Lines) {
			line = t.Lines[r]
		}
		sel.lines = append(sel.lines, line)
	}
	return sel, nil
}

// parseImportData converts the date, datetime, float and monetary columns
// of model in place, following relational paths into related models.
// columns holds the learned formats aligned with importFields. Every bad
// cell is reported; conversion continues past failures.
func (s *Service) parseImportData(model, prefix string, data [][]string, importFields []string, columns []guess.Options) []error {
	def, ok := Get(model)
	if !ok {
		return nil
	}

	var errs []error
	for _, f := range def.Fields {
		name := prefix + f.Name
		idx := indexOf(importFields, name)

		switch {
		case (f.Type == guess.TypeDate || f.Type == guess.TypeDatetime) && idx >= 0:
			errs = append(errs, guess.ConvertDateColumn(data, idx, name, f.Type, &columns[idx])...)
		case f.Relation != "" && traverses(importFields, name):
			errs = append(errs, s.parseImportData(f.Relation, name+"/", data, importFields, columns)...)
		case (f.Type == guess.TypeFloat || f.Type == guess.TypeMonetary) && idx >= 0:
			errs = append(errs, guess.ConvertFloatColumn(data, idx, name, &columns[idx], s.classifier.Currencies)...)
		}
	}
	return errs
}

// traverses reports whether any import path goes through name.
func traverses(importFields []string, name string) bool {
	for _, f := range importFields {
		if strings.HasPrefix(f, name+"/") {
			return true
		}
	}
	return false
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
