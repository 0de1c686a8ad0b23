// Package lifecycle is the application state machine: the sole writer of
// application status and stage, and the only component that records
// notification intents for application and job events. All errors
// surface synchronously to the caller; notification delivery failures
// never do (they are the dispatcher's problem).
package lifecycle

import (
	"errors"
	"io"
	"log/slog"

	"talenttrack-backend/internal/store"
	"talenttrack-backend/internal/upload"
)

// ErrNotAuthorized is returned when the acting identity may not perform
// the requested operation.
var ErrNotAuthorized = errors.New("actor is not authorized for this operation")

// SubmittedFile is one uploaded attachment: descriptor plus content. The
// validator sees only name and size; the bytes go straight to storage.
type SubmittedFile struct {
	Name string
	Size int64
	Data io.Reader
}

// Service drives application and job listing lifecycles on top of the
// entity store.
type Service struct {
	store   *store.Store
	storage upload.Storage
	rules   upload.Rules
	logger  *slog.Logger
}

// NewService creates a lifecycle Service.
func NewService(st *store.Store, storage upload.Storage, rules upload.Rules, logger *slog.Logger) *Service {
	return &Service{
		store:   st,
		storage: storage,
		rules:   rules,
		logger:  logger,
	}
}
