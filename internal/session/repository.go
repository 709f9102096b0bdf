// Package session owns the read-modify-write cycle for game sessions.
//
// Every mutation loads the whole document, applies a pure game.Transition
// and writes the whole document back. There is no compare-and-swap: two
// clients racing on the same snapshot both write, and correctness comes from
// transitions being idempotent and monotone, so the redundant writes agree.
// Moving to version-checked writes only needs to touch Apply.
package session

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/aaronzipp/thavalon/internal/errors"
	"github.com/aaronzipp/thavalon/internal/game"
	"github.com/aaronzipp/thavalon/internal/models"
	"github.com/aaronzipp/thavalon/internal/store"
)

var debug bool

func init() {
	debug = os.Getenv("DEBUG") != ""
}

// SetDebug turns verbose logging on or off. Call it before serving.
func SetDebug(enabled bool) {
	debug = enabled
}

// DebugEnabled reports whether verbose logging is on.
func DebugEnabled() bool {
	return debug
}

// Repository loads and saves sessions through a document store.
type Repository struct {
	docs    store.DocumentStore
	newID   func() string
	newCode func() string
}

// Option configures a Repository.
type Option func(*Repository)

// WithIDGenerator overrides how session ids are generated.
func WithIDGenerator(fn func() string) Option {
	return func(r *Repository) { r.newID = fn }
}

// WithCodeGenerator overrides how join codes are generated.
func WithCodeGenerator(fn func() string) Option {
	return func(r *Repository) { r.newCode = fn }
}

// NewRepository creates a repository over docs.
func NewRepository(docs store.DocumentStore, opts ...Option) *Repository {
	r := &Repository{
		docs:    docs,
		newID:   func() string { return uuid.New().String() },
		newCode: game.GenerateJoinCode,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load fetches the current session document.
func (r *Repository) Load(ctx context.Context, id string) (models.GameSession, error) {
	if strings.TrimSpace(id) == "" {
		return models.GameSession{}, apperrors.New(apperrors.CodeInvalidArgument, "session id is required")
	}
	data, err := r.docs.Get(ctx, id)
	if err != nil {
		return models.GameSession{}, storeError("load session "+id, err)
	}
	s, err := models.Decode(data)
	if err != nil {
		return models.GameSession{}, apperrors.Wrap(apperrors.CodeCorruptDocument, "load session "+id, err)
	}
	if s.ID == "" {
		s.ID = id
	}
	return s, nil
}

// Save overwrites the session document unconditionally.
func (r *Repository) Save(ctx context.Context, s models.GameSession) error {
	if s.ID == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "session id is required")
	}
	data, err := models.Encode(s)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "save session "+s.ID, err)
	}
	if err := r.docs.Put(ctx, s.ID, data); err != nil {
		return storeError("save session "+s.ID, err)
	}
	return nil
}

// Apply runs one read-modify-write cycle: load the session, compute the
// next snapshot with t, and save it if anything changed. A transition the
// state machine rejects leaves the stored session alone and is not an
// error. The returned session is what the store holds as far as this
// client knows.
func (r *Repository) Apply(ctx context.Context, id string, t game.Transition) (models.GameSession, bool, error) {
	cur, err := r.Load(ctx, id)
	if err != nil {
		return models.GameSession{}, false, err
	}

	next, err := t(cur)
	if err != nil {
		if errors.Is(err, game.ErrInvalidTransition) {
			if debug {
				log.Printf("apply: session=%s rejected: %v", id, err)
			}
			return cur, false, nil
		}
		return cur, false, err
	}
	if !game.Changed(cur, next) {
		return cur, false, nil
	}

	if err := r.Save(ctx, next); err != nil {
		return cur, false, err
	}
	if debug {
		log.Printf("apply: session=%s phase=%s mission=%d proposal=%d", id, next.Phase, next.MissionIndex, next.ProposalIndex)
	}
	return next, true, nil
}

// storeError classifies a store failure, keeping NotFound and oversized
// documents distinct from transient failures.
func storeError(msg string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.Wrap(apperrors.CodeNotFound, msg, err)
	}
	if apperrors.HasCode(err, apperrors.CodeTransientIO) || apperrors.HasCode(err, apperrors.CodeCorruptDocument) {
		return err
	}
	return apperrors.Wrap(apperrors.CodeTransientIO, msg, err)
}
