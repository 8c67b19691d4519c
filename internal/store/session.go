package store

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/robopost/internal/post"
)

// IDGenerator produces session identifiers.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session ids.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7. Panics if the system random
// source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Session stamps the saves of one process run with a shared id and a
// monotonic sequence number.
type Session struct {
	store *Store
	id    string
	seq   atomic.Int64

	// Now returns the save timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewSession starts a session with a fresh id from gen.
func NewSession(s *Store, gen IDGenerator) *Session {
	return &Session{store: s, id: gen.Generate(), Now: time.Now}
}

// ID returns the session id.
func (sess *Session) ID() string {
	return sess.id
}

// Record appends ev to the catalog.
func (sess *Session) Record(ctx context.Context, ev post.SaveEvent) (Save, error) {
	sv := Save{
		SessionID: sess.id,
		Seq:       sess.seq.Add(1),
		Post:      ev.Post,
		Robot:     ev.Robot,
		Program:   ev.Program,
		Path:      ev.Path,
		Lines:     ev.Lines,
		Size:      ev.Size,
		Digest:    ev.Digest,
		Log:       ev.Log,
		CreatedAt: sess.Now(),
	}
	if err := sess.store.WriteSave(ctx, sv); err != nil {
		return Save{}, err
	}
	return sv, nil
}

// Observer returns a post.Env.Observe hook that records every save.
// Catalog failures are logged; they never fail the save itself.
func (sess *Session) Observer(ctx context.Context) func(post.SaveEvent) {
	return func(ev post.SaveEvent) {
		if _, err := sess.Record(ctx, ev); err != nil {
			slog.Warn("could not record save", "path", ev.Path, "error", err)
		}
	}
}
