package auth

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/verdant-oils/storefront-backend/pkg/config"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(tokenID string) string
}

// SessionManager mints session tokens and tracks which token ids are
// still live, so logout can revoke a token before it expires.
type SessionManager struct {
	store sessionStore
	cfg   config.JWTConfig
}

func NewSessionManager(store sessionStore, cfg config.JWTConfig) (*SessionManager, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if cfg.Secret == "" || cfg.Issuer == "" {
		return nil, errors.New("jwt config is required")
	}
	return &SessionManager{store: store, cfg: cfg}, nil
}

// Start mints a token for the customer and registers its id with the
// same lifetime as the token itself.
func (m *SessionManager) Start(ctx context.Context, customerID int, email string) (string, error) {
	token, claims, err := MintSessionToken(m.cfg, time.Now(), customerID, email)
	if err != nil {
		return "", err
	}
	ttl := time.Duration(m.cfg.ExpirationMinutes) * time.Minute
	if err := m.store.Set(ctx, m.store.SessionKey(claims.ID), "1", ttl); err != nil {
		return "", err
	}
	return token, nil
}

// HasSession reports whether the token id is still registered.
func (m *SessionManager) HasSession(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	_, err := m.store.Get(ctx, m.store.SessionKey(tokenID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Revoke drops the token id; the token stops working immediately.
func (m *SessionManager) Revoke(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return nil
	}
	return m.store.Del(ctx, m.store.SessionKey(tokenID))
}
