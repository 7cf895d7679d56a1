package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/importguess/internal/config"
	"github.com/JonMunkholm/importguess/internal/guess"
	"github.com/google/uuid"
)

var (
	ErrUnknownModel = errors.New("unknown model")
	ErrFileTooLarge = errors.New("file too large")
)

// Dependencies are the pluggable collaborators of a Service. Nil members
// fall back to in-memory implementations; a nil Currencies rejects every
// currency symbol.
type Dependencies struct {
	Sessions   SessionStore
	Mappings   MappingStore
	Currencies guess.CurrencyLookup
	Sink       RecordSink
	Audit      AuditStore
}

// Service provides the import workflow.
type Service struct {
	cfg        config.ImportConfig
	sessions   SessionStore
	mappings   MappingStore
	sink       RecordSink
	audit      AuditStore
	classifier *guess.Classifier
	limiter    *ImportLimiter
	now        func() time.Time
}

// NewService creates a Service.
func NewService(cfg config.ImportConfig, deps Dependencies) *Service {
	if cfg.PreviewCount <= 0 {
		cfg.PreviewCount = guess.DefaultPreviewCount
	}
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if deps.Sessions == nil {
		deps.Sessions = NewMemorySessions(cfg.SessionTTL)
	}
	if deps.Mappings == nil {
		deps.Mappings = NewMemoryMappings()
	}
	if deps.Sink == nil {
		deps.Sink = NewMemorySink()
	}
	if deps.Audit == nil {
		deps.Audit = NewMemoryAudit(0)
	}

	return &Service{
		cfg:        cfg,
		sessions:   deps.Sessions,
		mappings:   deps.Mappings,
		sink:       deps.Sink,
		audit:      deps.Audit,
		classifier: guess.NewClassifier(deps.Currencies),
		limiter:    NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		now:        time.Now,
	}
}

// ListModels returns every importable model.
func (s *Service) ListModels() []ModelInfo {
	defs := All()
	infos := make([]ModelInfo, len(defs))
	for i, def := range defs {
		infos[i] = ModelInfo{Key: def.Key, Label: def.Label}
	}
	return infos
}

// ModelFields returns the importable field tree of model.
func (s *Service) ModelFields(model string) ([]Field, error) {
	if _, ok := Get(model); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, model)
	}
	return ImportableFields(model, FieldsRecursionLimit), nil
}

// CreateSession stores an uploaded file and returns the session id.
func (s *Service) CreateSession(ctx context.Context, model, fileName, contentType string, data []byte) (string, error) {
	if _, ok := Get(model); !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownModel, model)
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if s.cfg.MaxFileSize > 0 && int64(len(data)) > s.cfg.MaxFileSize {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, len(data), s.cfg.MaxFileSize)
	}
	_, mime, err := ReaderFor(fileName, contentType)
	if err != nil {
		return "", err
	}

	sess := &Session{
		ID:          uuid.New().String(),
		Model:       model,
		FileName:    fileName,
		ContentType: mime,
		Data:        data,
		CreatedAt:   s.now(),
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	slog.Info("import session created",
		"session_id", sess.ID,
		"model", model,
		"file", fileName,
		"bytes", len(data),
	)
	s.logAudit(ctx, AuditEntry{
		Action:    ActionUpload,
		Model:     model,
		SessionID: sess.ID,
		FileName:  fileName,
	})
	return sess.ID, nil
}

// Session returns a stored session.
func (s *Service) Session(ctx context.Context, id string) (*Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// DeleteSession discards a session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logAudit(ctx, AuditEntry{
		Action:    ActionSessionDelete,
		Model:     sess.Model,
		SessionID: id,
		FileName:  sess.FileName,
	})
	return nil
}

// WaitForImports blocks until running imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// ActiveImports returns the number of imports currently executing.
func (s *Service) ActiveImports() int {
	return s.limiter.Active()
}
