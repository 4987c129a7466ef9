// Package session stores interactive chart sessions for the HTTP API.
//
// A [Session] holds everything needed to rebuild a [tornado.Visual]: the
// data, the settings, the viewport and the highlight selection. The server
// keeps no Visual between requests; each request restores one from the
// session, applies the event and writes the new state back. This keeps
// sessions shareable across instances when the store is backed by Redis.
//
// Backends:
//   - [MemoryStore]: in-process map, for a single server or tests
//   - [CacheStore]: any [cache.Cache] (file or Redis) as JSON entries
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/tornado/pkg/dataview"
	"github.com/matzehuels/tornado/pkg/settings"
	"github.com/matzehuels/tornado/pkg/tornado"
	"github.com/matzehuels/tornado/pkg/tornado/layout"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 24 * time.Hour

// Session is one chart in progress.
type Session struct {
	ID        string             `json:"id"`
	Data      *dataview.DataView `json:"data"`
	Settings  *settings.Settings `json:"settings"`
	Viewport  layout.Viewport    `json:"viewport"`
	Selected  *int               `json:"selected,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	ExpiresAt time.Time          `json:"expires_at"`
}

// New creates a session with a random UUID and nothing selected.
func New(dv *dataview.DataView, s *settings.Settings, vp layout.Viewport, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Data:      dv,
		Settings:  s,
		Viewport:  vp,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session has passed its expiry time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the expiry by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// Restore rebuilds the Visual for this session and replays the stored
// selection. A selection that no longer fits the layout is dropped.
func (s *Session) Restore(opts ...tornado.Option) *tornado.Visual {
	v := tornado.New(opts...)
	v.Update(s.Data, s.Settings, s.Viewport)
	if s.Selected != nil {
		v.Click(*s.Selected)
	}
	s.Record(v)
	return v
}

// Record copies the Visual's selection into the session.
func (s *Session) Record(v *tornado.Visual) {
	if i, ok := v.Selection().Index(); ok {
		s.Selected = &i
		return
	}
	s.Selected = nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get returns the session with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session, replacing any previous version.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions. Backends with native expiry may
	// make this a no-op.
	Cleanup(ctx context.Context) error
}
