package core

import "github.com/JonMunkholm/importguess/internal/guess"

// ImportableFields returns the field tree a file of model can be mapped
// onto. The synthetic external id comes first. Readonly fields are left
// out. one2many fields are expanded into the related model until depth
// runs out; a depth of zero yields only the external id.
func ImportableFields(model string, depth int) []Field {
	fields := []Field{externalID("id")}
	if depth <= 0 {
		return fields
	}

	def, ok := Get(model)
	if !ok {
		return fields
	}

	for _, f := range def.Fields {
		if f.Readonly {
			continue
		}
		out := f
		out.ID = f.Name
		out.Fields = []Field{}

		switch f.Type {
		case guess.TypeMany2One, guess.TypeMany2Many:
			ext := out
			ext.Name, ext.Label, ext.Type = "id", "External ID", guess.TypeID
			db := out
			db.Name, db.Label, db.Type = ".id", "Database ID", guess.TypeID
			out.Fields = []Field{ext, db}
		case guess.TypeOne2Many:
			out.Fields = ImportableFields(f.Relation, depth-1)
		}
		fields = append(fields, out)
	}
	return fields
}

func externalID(id string) Field {
	return Field{
		ID:     id,
		Name:   "id",
		Label:  "External ID",
		Type:   guess.TypeID,
		Fields: []Field{},
	}
}

// lookupPath walks path through the tree and returns the field it ends on.
func lookupPath(fields []Field, path []string) (Field, bool) {
	var cur Field
	for i, name := range path {
		found := false
		for _, f := range fields {
			if f.Name == name {
				cur, found = f, true
				break
			}
		}
		if !found {
			return Field{}, false
		}
		if i < len(path)-1 {
			fields = cur.Fields
		}
	}
	return cur, len(path) > 0
}
