package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", "v"))
	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, m.Delete(ctx, "k"))
	_, ok, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")

	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "theme.mode", "dark"))
	require.NoError(t, f.Set(ctx, "auth.token", "tok"))
	require.NoError(t, f.Delete(ctx, "auth.token"))

	reopened, err := OpenFile(path)
	require.NoError(t, err)

	v, ok, err := reopened.Get(ctx, "theme.mode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)

	_, ok, err = reopened.Get(ctx, "auth.token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileDeleteMissingKeyIsNoop(t *testing.T) {
	ctx := context.Background()
	f, err := OpenFile(filepath.Join(t.TempDir(), "storage.json"))
	require.NoError(t, err)
	assert.NoError(t, f.Delete(ctx, "never-written"))
}

func TestRedisRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	r := NewRedis(mr.Addr(), "", 0, "appstate")
	defer func() { _ = r.Close() }()

	_, ok, err := r.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, "auth.user", `{"id":"u1"}`))
	v, ok, err := r.Get(ctx, "auth.user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"u1"}`, v)

	// keys are namespaced with the prefix
	assert.True(t, mr.Exists("appstate:auth.user"))

	require.NoError(t, r.Delete(ctx, "auth.user"))
	_, ok, err = r.Get(ctx, "auth.user")
	require.NoError(t, err)
	assert.False(t, ok)
}
