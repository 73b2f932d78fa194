package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	t.Run("missing file loads as nil", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "index.snapshot"))

		data, err := store.Load()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("save and load round-trip", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "index.snapshot"))

		payload := []byte{0x01, 0x02, 0x03, 0xff}
		require.NoError(t, store.Save(payload))

		data, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, payload, data)
	})

	t.Run("save creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "nested", "index.snapshot")
		store := NewStore(path)

		require.NoError(t, store.Save([]byte("blob")))

		_, err := os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("save replaces previous contents", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "index.snapshot"))

		require.NoError(t, store.Save([]byte("first version, longer payload")))
		require.NoError(t, store.Save([]byte("second")))

		data, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), data)
	})

	t.Run("save leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		store := NewStore(filepath.Join(dir, "index.snapshot"))
		require.NoError(t, store.Save([]byte("blob")))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("remove", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "index.snapshot"))
		require.NoError(t, store.Save([]byte("blob")))
		require.NoError(t, store.Remove())

		data, err := store.Load()
		require.NoError(t, err)
		assert.Nil(t, data)

		// Removing a missing snapshot is a no-op.
		assert.NoError(t, store.Remove())
	})
}
