package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips bytes", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir(), zap.NewNop())
		require.NoError(t, err)

		store.Set(ctx, "validator-rules", []byte(`{"tags":[]}`))
		value, ok := store.Get(ctx, "validator-rules")
		require.True(t, ok)
		assert.Equal(t, []byte(`{"tags":[]}`), value)
	})

	t.Run("missing key is a miss", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir(), zap.NewNop())
		require.NoError(t, err)

		_, ok := store.Get(ctx, "absent")
		assert.False(t, ok)
	})

	t.Run("URL keys map to safe filenames", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir(), zap.NewNop())
		require.NoError(t, err)

		key := "https://cdn.ampproject.org/rtv/012002261200000/v0.css"
		store.Set(ctx, key, []byte("body{margin:0}"))
		value, ok := store.Get(ctx, key)
		require.True(t, ok)
		assert.Equal(t, "body{margin:0}", string(value))
	})

	t.Run("overwrite replaces the value", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir(), zap.NewNop())
		require.NoError(t, err)

		store.Set(ctx, "k", []byte("old"))
		store.Set(ctx, "k", []byte("new"))
		value, ok := store.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, "new", string(value))
	})

	t.Run("creates missing directories", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "cache")
		store, err := NewFileStore(dir, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, dir, store.Dir())

		store.Set(ctx, "k", []byte("v"))
		_, ok := store.Get(ctx, "k")
		assert.True(t, ok)
	})

	t.Run("entries survive across store instances", func(t *testing.T) {
		dir := t.TempDir()
		first, err := NewFileStore(dir, zap.NewNop())
		require.NoError(t, err)
		first.Set(ctx, "k", []byte("persisted"))

		second, err := NewFileStore(dir, zap.NewNop())
		require.NoError(t, err)
		value, ok := second.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, "persisted", string(value))
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	store := NewMemoryStore()
	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)

	store.Set(ctx, "k", []byte("v"))
	value, ok := store.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", string(value))
	assert.Equal(t, 1, store.Size())
}
