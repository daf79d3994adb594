package datastore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestPutGetDelete(t *testing.T) {
	defer goleak.VerifyNone(t)

	ds, err := New(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	defer ds.Close()

	require.NoError(t, ds.Put("guilds:1", doc{Name: "one", Count: 1}))

	var got doc
	ok, err := ds.Get("guilds:1", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, doc{Name: "one", Count: 1}, got)

	ok, err = ds.Get("guilds:2", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ds.Delete("guilds:1"))
	assert.False(t, ds.Has("guilds:1"))
}

func TestKeysByPrefix(t *testing.T) {
	defer goleak.VerifyNone(t)

	ds, err := New(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	defer ds.Close()

	require.NoError(t, ds.Put("items:b", doc{}))
	require.NoError(t, ds.Put("items:a", doc{}))
	require.NoError(t, ds.Put("zones:a", doc{}))

	assert.Equal(t, []string{"items:a", "items:b"}, ds.Keys("items:"))
}

func TestPersistsAcrossReopen(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "store.json")
	ds, err := New(path)
	require.NoError(t, err)
	require.NoError(t, ds.Put("todos:42", doc{Name: "list", Count: 3}))
	require.NoError(t, ds.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	var got doc
	ok, err := reopened.Get("todos:42", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, got.Count)
}

func TestClosedStoreRejectsWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	ds, err := New(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	require.NoError(t, ds.Close())

	assert.ErrorIs(t, ds.Put("k", doc{}), ErrClosed)
	assert.NoError(t, ds.Close())
}

func TestMemoryLimit(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := DefaultConfig(filepath.Join(t.TempDir(), "store.json"))
	cfg.MaxMemorySize = 16
	ds, err := NewWithConfig(cfg)
	require.NoError(t, err)
	defer ds.Close()

	assert.ErrorIs(t, ds.Put("big", doc{Name: "this name is far too long"}), ErrMemoryLimit)
	assert.False(t, ds.Has("big"))
}

func TestBackupsAreCapped(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := DefaultConfig(filepath.Join(t.TempDir(), "store.json"))
	cfg.BackupCount = 2
	cfg.AutoSaveInterval = time.Hour
	ds, err := NewWithConfig(cfg)
	require.NoError(t, err)
	defer ds.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, ds.Put("k", doc{Count: i}))
		require.NoError(t, ds.SaveToFile())
		time.Sleep(5 * time.Millisecond)
	}

	matches, err := filepath.Glob(cfg.FilePath + ".backup.*")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(matches), 2)

	_, err = os.Stat(cfg.FilePath)
	assert.NoError(t, err)
}
