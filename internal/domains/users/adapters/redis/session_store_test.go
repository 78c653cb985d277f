package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/clothes-shop-api/internal/domains/users/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/users/ports"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *SessionStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewSessionStore(client, "test")
}

func TestSessionStore_SaveGetDelete(t *testing.T) {
	mr, store := setupTestRedis(t)
	ctx := context.Background()

	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, store.Save(ctx, domain.Session{Token: "tok", Username: "admin", ExpiresAt: expires}))
	assert.True(t, mr.Exists("test:session:tok"))
	assert.Greater(t, mr.TTL("test:session:tok"), 59*time.Minute)

	session, err := store.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Username)
	assert.True(t, expires.Equal(session.ExpiresAt))

	require.NoError(t, store.Delete(ctx, "tok"))
	_, err = store.Get(ctx, "tok")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_KeyExpires(t *testing.T) {
	mr, store := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Session{Token: "tok", Username: "admin", ExpiresAt: time.Now().Add(time.Minute)}))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "tok")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_SkipsAlreadyExpiredSessions(t *testing.T) {
	mr, store := setupTestRedis(t)

	require.NoError(t, store.Save(context.Background(), domain.Session{Token: "old", Username: "admin", ExpiresAt: time.Now().Add(-time.Minute)}))
	assert.False(t, mr.Exists("test:session:old"))
}

func TestNewClientFromURL(t *testing.T) {
	_, err := NewClientFromURL("not a url")
	assert.Error(t, err)

	client, err := NewClientFromURL("redis://localhost:6379/2")
	require.NoError(t, err)
	assert.Equal(t, 2, client.Options().DB)
	_ = client.Close()
}
