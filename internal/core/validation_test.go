package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateMapping(t *testing.T) {
	tree := ImportableFields("test.partner", FieldsRecursionLimit)

	tests := []struct {
		name   string
		fields []string
		want   []ValidationError
	}{
		{
			name:   "valid",
			fields: []string{"name", "country_id/id", "line_ids/qty"},
		},
		{
			name:   "external id relaxes required",
			fields: []string{"id", "amount"},
		},
		{
			name:   "missing required",
			fields: []string{"amount"},
			want: []ValidationError{
				{Field: "name", Message: `missing required field "name" (Name)`},
			},
		},
		{
			name:   "unknown and duplicate",
			fields: []string{"name", "nope", "name", "country_id/name"},
			want: []ValidationError{
				{Field: "nope", Message: "unknown field"},
				{Field: "name", Message: "field is mapped to more than one column"},
				{Field: "country_id/name", Message: "unknown field"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateMapping(tree, tt.fields)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ValidateMapping() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateRequiredCells(t *testing.T) {
	tree := ImportableFields("test.partner", FieldsRecursionLimit)
	data := [][]string{
		{"Alice", ""},
		{"  ", "1"},
	}

	got := ValidateRequiredCells(tree, []string{"name", "amount"}, data)
	want := []ValidationError{{Field: "name", Line: 2, Message: "required field is empty"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ValidateRequiredCells() mismatch (-want +got):\n%s", diff)
	}
	if got[0].Error() != "line 2: name: required field is empty" {
		t.Errorf("Error() = %q", got[0].Error())
	}
}
