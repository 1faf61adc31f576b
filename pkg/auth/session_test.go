package auth

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionStore struct {
	data map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{data: map[string]string{}}
}

func (f *fakeSessionStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (f *fakeSessionStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeSessionStore) SessionKey(tokenID string) string { return "vo:session:" + tokenID }

func TestSessionLifecycle(t *testing.T) {
	store := newFakeSessionStore()
	manager, err := NewSessionManager(store, testJWT)
	require.NoError(t, err)

	token, err := manager.Start(context.Background(), 42, "jane@example.com")
	require.NoError(t, err)

	claims, err := ParseSessionToken(testJWT, token)
	require.NoError(t, err)

	ok, err := manager.HasSession(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, manager.Revoke(context.Background(), claims.ID))

	ok, err = manager.HasSession(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasSessionUnknownToken(t *testing.T) {
	manager, err := NewSessionManager(newFakeSessionStore(), testJWT)
	require.NoError(t, err)

	ok, err := manager.HasSession(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}
