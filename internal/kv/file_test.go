package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKV_GetSetRemove(t *testing.T) {
	store, err := NewFileKV(t.TempDir())
	require.NoError(t, err)

	_, ok, err := store.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("users", `[{"id":"1"}]`))

	v, ok, err := store.Get("users")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)

	// overwrite replaces the value wholesale
	require.NoError(t, store.Set("users", `[]`))
	v, ok, err = store.Get("users")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, v)

	require.NoError(t, store.Remove("users"))
	_, ok, err = store.Get("users")
	require.NoError(t, err)
	assert.False(t, ok)

	// removing an absent key is a no-op
	require.NoError(t, store.Remove("users"))
}

func TestFileKV_EmptyValueIsPresent(t *testing.T) {
	store, err := NewFileKV(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("session", ""))

	v, ok, err := store.Get("session")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestFileKV_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileKV(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("projects", `[{"id":"p1"}]`))

	reopened, err := NewFileKV(dir)
	require.NoError(t, err)

	v, ok, err := reopened.Get("projects")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"p1"}]`, v)
}

func TestFileKV_RejectsPathKeys(t *testing.T) {
	store, err := NewFileKV(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "a/b", `a\b`} {
		_, _, err := store.Get(key)
		assert.Error(t, err, "key %q", key)
		assert.Error(t, store.Set(key, "x"), "key %q", key)
	}
}

func TestFileKV_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileKV(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("resources", `[]`))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "resources", filepath.Base(entries[0].Name()))
}
