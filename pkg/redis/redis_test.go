package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewFromClient(rdb), mr
}

func TestNew_URLInvalida(t *testing.T) {
	_, err := New("://invalid-url", "")
	assert.Error(t, err)
}

func TestNew_ConMiniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := New("redis://"+mr.Addr(), "")
	require.NoError(t, err)
	assert.NotNil(t, c.Raw())
	assert.NoError(t, c.Close())
}

// ──────────────────────────────────────────────────────────────────────────────
// SessionStore
// ──────────────────────────────────────────────────────────────────────────────

func TestSessionStore_SaveVerifyRevoke(t *testing.T) {
	c, _ := newTestClient(t)
	store := NewSessionStore(c)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s-1", "u-1", time.Hour))
	assert.NoError(t, store.Verify(ctx, "s-1", "u-1"))
	assert.ErrorIs(t, store.Verify(ctx, "s-1", "u-2"), ErrSessionNotFound)

	require.NoError(t, store.Revoke(ctx, "s-1"))
	assert.ErrorIs(t, store.Verify(ctx, "s-1", "u-1"), ErrSessionNotFound)
}

func TestSessionStore_Expira(t *testing.T) {
	c, mr := newTestClient(t)
	store := NewSessionStore(c)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s-2", "u-1", time.Minute))
	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, store.Verify(ctx, "s-2", "u-1"), ErrSessionNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Storage (fiber.Storage)
// ──────────────────────────────────────────────────────────────────────────────

func TestStorage_GetSetDeleteReset(t *testing.T) {
	c, mr := newTestClient(t)
	s := NewStorage(c, "limiter:")

	val, err := s.Get("ip-1")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("ip-1", []byte("3"), time.Minute))
	require.NoError(t, s.Set("ip-2", []byte("1"), 0))
	assert.True(t, mr.Exists("limiter:ip-1"))

	val, err = s.Get("ip-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), val)

	require.NoError(t, s.Delete("ip-1"))
	val, err = s.Get("ip-1")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, mr.Set("otra:clave", "x"))
	require.NoError(t, s.Reset())
	assert.False(t, mr.Exists("limiter:ip-2"))
	assert.True(t, mr.Exists("otra:clave"), "Reset solo borra su prefijo")
	assert.NoError(t, s.Close())
}
