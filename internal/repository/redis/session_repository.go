package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"askgov-sg/internal/repository/contract"
	"askgov-sg/pkg/store"

	goredis "github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "askgov:session:"

	// maxUpdateAttempts bounds optimistic retries when another request
	// writes the same session between WATCH and EXEC.
	maxUpdateAttempts = 5
)

// SessionRepository shares sessions between server replicas.
type SessionRepository struct {
	client *goredis.Client
	ttl    time.Duration
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(client *goredis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

// NewClient parses url, falling back to treating it as a plain host:port,
// and pings once.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		opt = &goredis.Options{Addr: url}
	}
	rdb := goredis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+session.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*store.Session, bool, error) {
	data, err := r.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get session: %w", err)
	}

	var session store.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, false, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, true, nil
}

// Update runs a WATCH/MULTI transaction on the session key, retrying when a
// concurrent writer wins the race.
func (r *SessionRepository) Update(ctx context.Context, session *store.Session, mutate func(*store.Session)) error {
	key := keyPrefix + session.ID

	var updated store.Session
	txf := func(tx *goredis.Tx) error {
		current := *session
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, goredis.Nil):
		case err != nil:
			return err
		default:
			current = store.Session{}
			if err := json.Unmarshal(data, &current); err != nil {
				return fmt.Errorf("unmarshal session: %w", err)
			}
		}
		mutate(&current)

		out, err := json.Marshal(&current)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, out, r.ttl)
			return nil
		})
		if err == nil {
			updated = current
		}
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		*session = updated
		return nil
	}
	return fmt.Errorf("update session: %w", goredis.TxFailedErr)
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
