package contract

import (
	"context"

	"askgov-sg/pkg/store"
)

// SessionRepository persists per-browser sessions until they expire.
// Implementations store and return copies. Concurrent requests of one
// session each hold their own copy, so changes to an existing session go
// through Update; Save is for freshly created sessions.
type SessionRepository interface {
	Save(ctx context.Context, session *store.Session) error
	Get(ctx context.Context, sessionID string) (*store.Session, bool, error)
	// Update applies mutate to the stored version of session (or to session
	// itself when nothing is stored), persists the result atomically and
	// copies it back into session.
	Update(ctx context.Context, session *store.Session, mutate func(*store.Session)) error
	Delete(ctx context.Context, sessionID string) error
}
