package core

import (
	"context"
	"strings"

	"github.com/JonMunkholm/importguess/internal/guess"
	"github.com/JonMunkholm/importguess/internal/logging"
	"golang.org/x/sync/errgroup"
)

// ParsePreview reads the session's file, matches its headers to fields and
// guesses every column's type from the first rows. The formats learned per
// column are saved on the session for Execute.
//
// A file that cannot be read is not an error: the response carries the
// reason and, for CSV, the start of the raw file. Errors are returned only
// for unknown sessions and storage failures.
func (s *Service) ParsePreview(ctx context.Context, sessionID string, opts PreviewOptions) (*PreviewResponse, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	log := logging.ForSession(ctx, sessionID, sess.Model)

	count := opts.PreviewCount
	if count <= 0 {
		count = s.cfg.PreviewCount
	}
	opts.PreviewCount = count

	fields := ImportableFields(sess.Model, FieldsRecursionLimit)

	sess.Read = opts.ReadOptions
	table, err := ReadTable(sess)
	if err != nil {
		log.Debug("preview failed", "error", err)
		resp := &PreviewResponse{Error: err.Error()}
		if sess.ContentType == MimeCSV {
			resp.RawPreview = errorPreview(sess.Data)
		}
		return resp, nil
	}

	saved, err := s.mappings.Lookup(ctx, sess.Model)
	if err != nil {
		log.Warn("saved mappings unavailable", "error", err)
		saved = nil
	}
	matcher := HeaderMatcher{Saved: saved, FuzzyThreshold: s.cfg.FuzzyThreshold}
	matches := matcher.MatchHeaders(fields, table.Header)

	preview := table.Rows
	if len(preview) > count {
		preview = preview[:count]
	}

	types, columns, err := s.classifyColumns(ctx, preview, table.Width(), opts)
	if err != nil {
		return nil, err
	}

	if opts.KeepMatches && len(opts.Fields) > 0 {
		matches = make(map[int][]string)
		for i, f := range opts.Fields {
			if f != "" {
				matches[i] = strings.Split(f, "/")
			}
		}
	}

	advanced := opts.Advanced
	if !opts.KeepMatches {
		advanced = hasRelationalPath(table.Header, matches)
	}

	sess.Columns = columns
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}

	s.logAudit(ctx, AuditEntry{
		Action:    ActionPreview,
		Model:     sess.Model,
		SessionID: sess.ID,
		FileName:  sess.FileName,
		Rows:      len(table.Rows),
	})
	log.Info("preview parsed",
		"columns", len(columns),
		"rows", len(table.Rows),
		"matched", len(matches),
	)

	return &PreviewResponse{
		Fields:        fields,
		Headers:       table.Header,
		Matches:       matches,
		HeaderTypes:   types,
		Preview:       preview,
		Options:       &opts,
		ColumnOptions: columns,
		AdvancedMode:  advanced,
	}, nil
}

// classifyColumns guesses each column concurrently. Every column starts from
// its own copy of the caller's preferences, so formats learned in one
// column never leak into another.
func (s *Service) classifyColumns(ctx context.Context, rows [][]string, width int, opts PreviewOptions) ([][]guess.FieldType, []guess.Options, error) {
	types := make([][]guess.FieldType, width)
	columns := make([]guess.Options, width)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < width; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			col := opts.Options.Clone()
			if i < len(opts.Formats) {
				col.Overlay(opts.Formats[i])
			}
			types[i] = s.classifier.ClassifyColumn(guess.ColumnValues(rows, i), col)
			columns[i] = *col
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return types, columns, nil
}
