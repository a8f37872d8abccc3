package tokenstore

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := NewFileStore(path)

	require.NoError(t, store.Save("tok-123"))

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
	assert.True(t, store.Exists())
	assert.Equal(t, path, store.Path())
}

func TestFileStoreSaveReplaces(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "token"))

	require.NoError(t, store.Save("first"))
	require.NoError(t, store.Save("second"))

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", token)
}

func TestFileStoreSaveCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "token")
	store := NewFileStore(path)

	require.NoError(t, store.Save("tok"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestFileStoreLoadNotFound(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.True(t, IsNotFound(err))
	assert.False(t, store.Exists())
}

func TestFileStoreLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0600))

	_, err := NewFileStore(path).Load()
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestFileStoreLoadRejectsLoosePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file mode bits are not meaningful on Windows")
	}
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("tok"), 0644))

	_, err := NewFileStore(path).Load()
	assert.ErrorIs(t, err, ErrInvalidPermissions)
}

func TestFileStoreLoadTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("tok-123\n"), 0600))

	token, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestFileStoreClear(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, store.Save("tok"))

	require.NoError(t, store.Clear())
	assert.False(t, store.Exists())

	// Clearing an empty store is a no-op.
	require.NoError(t, store.Clear())
}

func TestDefaultPathEnvOverride(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "alt-token")
	t.Setenv("MCTL_TOKEN_PATH", custom)
	assert.Equal(t, custom, DefaultPath())
}

func TestMemStore(t *testing.T) {
	store := NewMemStore()

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.False(t, store.Exists())

	require.NoError(t, store.Save("tok"))
	assert.True(t, store.Exists())

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	require.NoError(t, store.Clear())
	assert.False(t, store.Exists())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrTokenNotFound)
}
