package memory

import (
	"context"
	"sync"
	"time"

	"askgov-sg/internal/repository/contract"
	"askgov-sg/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	// mu serialises writers so Update's read-modify-write is atomic
	mu    sync.Mutex
	cache *cache.Cache
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository keeps sessions for ttl and purges expired entries
// every ttl/6 (at least once a minute).
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	cleanup := ttl / 6
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &SessionRepository{
		cache: cache.New(ttl, cleanup),
	}
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *session
	r.cache.Set(session.ID, &cp, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*store.Session, bool, error) {
	if x, found := r.cache.Get(sessionID); found {
		cp := *x.(*store.Session)
		return &cp, true, nil
	}
	return nil, false, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *store.Session, mutate func(*store.Session)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := *session
	if x, found := r.cache.Get(session.ID); found {
		current = *x.(*store.Session)
	}
	mutate(&current)

	stored := current
	r.cache.Set(session.ID, &stored, cache.DefaultExpiration)
	*session = current
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}
