package kv

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runBackendContract exercises the behavior every Backend must share.
func runBackendContract(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		v, ok, err := b.Get(ctx, "app:missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set get overwrite", func(t *testing.T) {
		require.NoError(t, b.Set(ctx, "app:signature:1", `{"v":1}`))
		require.NoError(t, b.Set(ctx, "app:signature:1", `{"v":2}`))
		v, ok, err := b.Get(ctx, "app:signature:1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"v":2}`, v)
	})

	t.Run("list by prefix", func(t *testing.T) {
		require.NoError(t, b.Set(ctx, "app:signature:2", "x"))
		require.NoError(t, b.Set(ctx, "app:batch:#10000", "y"))
		require.NoError(t, b.Set(ctx, "APP:signature:3", "z"))
		require.NoError(t, b.Set(ctx, "app_signature:4", "w"))

		keys, err := b.List(ctx, "app:signature:")
		require.NoError(t, err)
		assert.Equal(t, []string{"app:signature:1", "app:signature:2"}, keys)

		keys, err = b.List(ctx, "app:batch:")
		require.NoError(t, err)
		assert.Equal(t, []string{"app:batch:#10000"}, keys)
	})

	t.Run("wildcards in prefix are literal", func(t *testing.T) {
		require.NoError(t, b.Set(ctx, "w%c:1", "a"))
		require.NoError(t, b.Set(ctx, "wxc:1", "b"))
		keys, err := b.List(ctx, "w%c:")
		require.NoError(t, err)
		assert.Equal(t, []string{"w%c:1"}, keys)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, b.Delete(ctx, "app:signature:2"))
		require.NoError(t, b.Delete(ctx, "app:never-existed"))
		_, ok, err := b.Get(ctx, "app:signature:2")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("list empty", func(t *testing.T) {
		keys, err := b.List(ctx, "nothing-here:")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})
}

func TestMemory_Contract(t *testing.T) {
	runBackendContract(t, NewMemory())
}

func TestSQLite_Contract(t *testing.T) {
	b, err := NewSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() }) //nolint:errcheck
	require.NoError(t, b.Migrate(context.Background()))

	runBackendContract(t, b)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	b, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, b.Migrate(ctx))
	require.NoError(t, b.Set(ctx, "k", "v"))
	require.NoError(t, b.Close())

	b, err = NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() }) //nolint:errcheck
	require.NoError(t, b.Migrate(ctx))

	v, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestMemory_ConcurrentWriters(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.Set(ctx, fmt.Sprintf("k:%03d", i), "v")
		}(i)
	}
	wg.Wait()

	keys, err := m.List(ctx, "k:")
	require.NoError(t, err)
	assert.Len(t, keys, 50)
	assert.Equal(t, 50, m.Len())
}

func TestMemory_CanceledContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, m.Set(ctx, "k", "v"))
	_, _, err := m.Get(ctx, "k")
	assert.Error(t, err)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `sigverify:signature:%`, likePattern("sigverify:signature:"))
	assert.Equal(t, `a\%b\_c\\%`, likePattern(`a%b_c\`))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, Config{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, b)

	b, err = Open(ctx, Config{Driver: DriverSQLite, DatabaseURL: filepath.Join(t.TempDir(), "open.db")})
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() }) //nolint:errcheck
	require.NoError(t, b.Set(ctx, "k", "v"))

	_, err = Open(ctx, Config{Driver: "leveldb"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")

	_, err = Open(ctx, Config{Driver: DriverPostgres})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url is required")
}
