package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_Write(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()

	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	t.Run("creates parent directories", func(t *testing.T) {
		require.NoError(t, s.Write(ctx, "public/data/data.json", []byte(`{"a":1}`)))

		data, err := os.ReadFile(filepath.Join(base, "public", "data", "data.json"))
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, string(data))
	})

	t.Run("replaces existing content", func(t *testing.T) {
		require.NoError(t, s.Write(ctx, "out.json", []byte("first")))
		require.NoError(t, s.Write(ctx, "out.json", []byte("second")))

		data, err := s.Read(ctx, "out.json")
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))

		entries, err := os.ReadDir(base)
		require.NoError(t, err)
		for _, e := range entries {
			assert.NotContains(t, e.Name(), ".tmp", "temp files are cleaned up")
		}
	})

	t.Run("absolute paths bypass the base", func(t *testing.T) {
		abs := filepath.Join(t.TempDir(), "nested", "abs.json")
		require.NoError(t, s.Write(ctx, abs, []byte("x")))

		data, err := os.ReadFile(abs)
		require.NoError(t, err)
		assert.Equal(t, "x", string(data))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, s.Write(cctx, "never.json", []byte("x")), context.Canceled)
	})
}

func TestLocalStorage_ReadMissing(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Read(context.Background(), "missing.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNew(t *testing.T) {
	s, err := New(&Config{Type: StorageTypeLocal, LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)
}
