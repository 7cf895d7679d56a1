// Package core drives a tabular import: it holds the uploaded file in a
// session, previews it with guessed column types, and executes the import
// with the formats learned during the preview.
//
// This package has no transport dependencies. Web handlers, the CLI and
// tests all call [Service] directly.
//
// # Models
//
// Target models are registered at init time using [Register]. Each
// [ModelDefinition] lists the fields a file can be mapped onto:
//
//	core.Register(core.ModelDefinition{
//	    Key:   "res.partner",
//	    Label: "Contact",
//	    Fields: []core.Field{
//	        {Name: "name", Label: "Name", Type: guess.TypeChar, Required: true},
//	        {Name: "country_id", Label: "Country", Type: guess.TypeMany2One, Relation: "res.country"},
//	    },
//	})
//
// [ImportableFields] turns a definition into the tree offered to the user:
// an "id" entry first, "id" and ".id" sub-fields under many2one and
// many2many fields, and the related model's fields under one2many fields.
//
// # Import flow
//
//  1. [Service.CreateSession] stores the raw file and returns a session id.
//  2. [Service.ParsePreview] reads the file, matches headers to fields and
//     classifies every column. The formats learned per column are stored
//     on the session.
//  3. [Service.Execute] converts dates and numbers with those formats and
//     hands the rows to a [RecordSink]. Conversion problems are reported
//     as messages, one per bad cell, rather than aborting on the first.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with [MapError].
// Codes are grouped as VAL (cell and mapping problems), FILE (reading the
// upload), IMP (sessions and the import run) and DB (storage).
package core
