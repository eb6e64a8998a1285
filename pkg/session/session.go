// Package session keeps laid-out diagrams between interactive edits.
//
// A client lays out a drawing once, receives a session ID, and then drags
// equipment around by posting moves against that ID. Each move re-runs the
// downstream stages on the stored diagram rather than the whole pipeline, so
// earlier manual placements survive.
//
// Three backends exist:
//   - [MemoryStore]: single-process servers and tests
//   - [FileStore]: one JSON file per session under a directory
//   - [CacheStore]: any [cache.Cache], typically Redis for multi-instance deployments
//
// # Usage
//
//	sess := session.New(res.Diagram, opts, session.DefaultTTL)
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err // ErrExpired for stale sessions
//	}
//	if sess == nil {
//	    // unknown session
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/pidlayout/pkg/diagram"
	"github.com/matzehuels/pidlayout/pkg/pipeline"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("session expired")
)

// DefaultTTL is how long an idle editing session is kept.
const DefaultTTL = 24 * time.Hour

// Session is one drawing being edited.
type Session struct {
	ID      string           `json:"id"`
	Diagram *diagram.Diagram `json:"diagram"`

	// Options are the pipeline options the diagram was laid out with. Moves
	// reuse them so that routing and annotation stay consistent.
	Options pipeline.Options `json:"options"`

	// Moves counts rearrangements applied since the initial layout.
	Moves int `json:"moves"`

	TTL       time.Duration `json:"ttl"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// New creates a session with a random ID.
func New(d *diagram.Diagram, opts pipeline.Options, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	opts.Logger = nil
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Diagram:   d,
		Options:   opts,
		TTL:       ttl,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Update replaces the diagram after a move and extends the expiry.
func (s *Session) Update(d *diagram.Diagram) {
	s.Diagram = d
	s.Moves++
	s.UpdatedAt = time.Now()
	s.ExpiresAt = s.UpdatedAt.Add(s.TTL)
}

// ValidID reports whether id has the form generated by [New]. Stores use it
// to reject IDs that could escape their namespace.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist.
	// Returns nil, ErrExpired if the session exists but has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op when the backend
	// expires entries itself).
	Cleanup(ctx context.Context) error
}
