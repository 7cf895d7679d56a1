// Package templates renders the HTML fragments swapped in by HTMX. The
// components are written in templ; run `templ generate` after editing a
// .templ file.
package templates

//go:generate templ generate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/JonMunkholm/importguess/internal/core"
	"github.com/JonMunkholm/importguess/internal/guess"
)

func typeList(types []guess.FieldType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// matchPath returns the field path matched to column i, joined with "/".
func matchPath(resp *core.PreviewResponse, i int) (string, bool) {
	path, ok := resp.Matches[i]
	if !ok {
		return "", false
	}
	return strings.Join(path, "/"), true
}

// cell returns row[i], or "" for short rows.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func resultClass(res *core.ImportResult) string {
	if res.HasErrors() {
		return "import-result import-failed"
	}
	return "import-result import-success"
}

func summary(res *core.ImportResult) string {
	switch {
	case res.HasErrors():
		return fmt.Sprintf("%d problem(s) found, nothing was imported.", res.ErrorCount())
	case res.DryRun:
		return fmt.Sprintf("Validated %d row(s).", res.Rows)
	default:
		return fmt.Sprintf("Imported %d row(s).", res.Rows)
	}
}

func sortedMessages(msgs []core.Message) []core.Message {
	out := slices.Clone(msgs)
	slices.SortStableFunc(out, func(a, b core.Message) int { return a.Line - b.Line })
	return out
}

func lineLabel(line int) string {
	return fmt.Sprintf("line %d", line)
}
