package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/importguess/internal/guess"
	"github.com/JonMunkholm/importguess/internal/logging"
)

// Execute imports the session's file. fields maps each file column to a
// field path ("" skips the column); columns holds the header each column
// had, used to remember the mapping for the next import of the model.
//
// Problems with the file, the mapping or individual cells are returned as
// messages in the result, and nothing is loaded when any is an error. With
// dryRun the sink validates without committing and no mapping is saved.
func (s *Service) Execute(ctx context.Context, sessionID string, fields, columns []string, dryRun bool) (*ImportResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	log := logging.ForSession(ctx, sessionID, sess.Model, "dry_run", dryRun)

	result, err := s.runImport(ctx, log, sess, fields, dryRun)
	if err != nil {
		return nil, err
	}

	action := ActionImport
	if dryRun {
		action = ActionDryRun
	}
	s.logAudit(ctx, AuditEntry{
		Action:    action,
		Model:     sess.Model,
		SessionID: sess.ID,
		FileName:  sess.FileName,
		Rows:      result.Rows,
		Errors:    result.ErrorCount(),
	})

	if result.Rows > 0 && !dryRun {
		s.saveMappings(ctx, log, sess.Model, fields, columns)
	}
	log.Info("import done", "rows", result.Rows, "messages", len(result.Messages))
	return result, nil
}

func (s *Service) runImport(ctx context.Context, log *slog.Logger, sess *Session, fields []string, dryRun bool) (*ImportResult, error) {
	result := &ImportResult{DryRun: dryRun, Messages: []Message{}}

	table, err := ReadTable(sess)
	if err != nil {
		result.Messages = append(result.Messages, errorMessage(err))
		return result, nil
	}

	if len(sess.Columns) == 0 {
		preview := table.Rows
		if len(preview) > s.cfg.PreviewCount {
			preview = preview[:s.cfg.PreviewCount]
		}
		_, learned, err := s.classifyColumns(ctx, preview, table.Width(), PreviewOptions{})
		if err != nil {
			return nil, err
		}
		sess.Columns = learned
	}

	sel, err := selectColumns(table, fields)
	if err != nil {
		result.Messages = append(result.Messages, errorMessage(err))
		return result, nil
	}

	tree := ImportableFields(sess.Model, FieldsRecursionLimit)
	for _, verr := range ValidateMapping(tree, sel.fields) {
		result.Messages = append(result.Messages, validationMessage(verr))
	}
	if result.HasErrors() {
		return result, nil
	}

	formats := make([]guess.Options, len(sel.indices))
	for j, idx := range sel.indices {
		if idx < len(sess.Columns) {
			formats[j] = sess.Columns[idx]
		}
	}
	for _, err := range s.parseImportData(sess.Model, "", sel.data, sel.fields, formats) {
		var ve *guess.ValueError
		if errors.As(err, &ve) {
			ve.Line = sel.fileLine(ve.Line)
		}
		log.Debug("conversion failed", "error", err)
		result.Messages = append(result.Messages, errorMessage(err))
	}
	for _, verr := range ValidateRequiredCells(tree, sel.fields, sel.data) {
		verr.Line = sel.fileLine(verr.Line)
		result.Messages = append(result.Messages, validationMessage(verr))
	}
	if result.HasErrors() {
		log.Info("import rejected", "messages", len(result.Messages))
		return result, nil
	}

	log.Info("loading rows", "rows", len(sel.data))
	n, err := s.sink.Load(ctx, sess.Model, sel.fields, sel.data, dryRun)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("load %s: %w", sess.Model, ctxErr)
		}
		log.Error("load failed", "error", err)
		result.Messages = append(result.Messages, errorMessage(err))
		return result, nil
	}
	result.Rows = n
	return result, nil
}

// saveMappings remembers header to field choices. Failures are logged only.
func (s *Service) saveMappings(ctx context.Context, log *slog.Logger, model string, fields, columns []string) {
	for i, column := range columns {
		if column == "" || i >= len(fields) || fields[i] == "" {
			continue
		}
		if err := s.mappings.Save(ctx, model, column, fields[i]); err != nil {
			log.Warn("save mapping failed", "column", column, "error", err)
		}
	}
}

func errorMessage(err error) Message {
	msg := Message{
		Type:    MessageError,
		Message: err.Error(),
		Code:    MapError(err).Code,
	}
	var ve *guess.ValueError
	if errors.As(err, &ve) {
		msg.Field = ve.Column
		msg.Line = ve.Line
	}
	return msg
}

func validationMessage(err ValidationError) Message {
	return Message{
		Type:    MessageError,
		Message: err.Error(),
		Field:   err.Field,
		Line:    err.Line,
		Code:    MapError(err).Code,
	}
}
