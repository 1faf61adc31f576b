package cart

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	pkgerrors "github.com/verdant-oils/storefront-backend/pkg/errors"
)

type sessionBackend interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// SessionStore persists cart snapshots by session id with a TTL, so a
// returning browser session rehydrates the same cart on any instance.
type SessionStore struct {
	backend sessionBackend
	ttl     time.Duration
}

// NewSessionStore builds a store over the shared redis client.
func NewSessionStore(backend sessionBackend, ttl time.Duration) (*SessionStore, error) {
	if backend == nil {
		return nil, errors.New("session backend required")
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &SessionStore{backend: backend, ttl: ttl}, nil
}

// Save persists the cart snapshot; an empty cart deletes the key.
func (s *SessionStore) Save(ctx context.Context, sessionID string, c *Cart) error {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if c == nil || c.Len() == 0 {
		return s.Delete(ctx, id)
	}

	payload, err := json.Marshal(c.Lines())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal cart")
	}
	if err := s.backend.Set(ctx, s.backend.CartKey(id), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return nil
}

// Load rehydrates the cart for a session; a missing key yields an empty cart.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	raw, err := s.backend.Get(ctx, s.backend.CartKey(id))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return New(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart")
	}
	return FromLines(lines), nil
}

// Delete removes the persisted cart for a session.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.backend.Del(ctx, s.backend.CartKey(id)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	return nil
}
