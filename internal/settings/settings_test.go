package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "nested", "settings.yaml"))
}

func TestSaveAndLoad(t *testing.T) {
	s := newTestStore(t)

	require.True(t, s.Save("/data/photos", `\.jpg$`))

	got, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, Settings{RootPath: "/data/photos", Pattern: `\.jpg$`}, got)

	// A second store sees the same file
	other := NewStore(s.Path())
	got, ok = other.Load()
	require.True(t, ok)
	assert.Equal(t, "/data/photos", got.RootPath)
}

func TestSaveRefusesEmpty(t *testing.T) {
	s := newTestStore(t)

	assert.False(t, s.Save("", ""))
	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))

	_, ok := s.Load()
	assert.False(t, ok)
}

func TestSaveSingleValue(t *testing.T) {
	s := newTestStore(t)

	require.True(t, s.Save("", "log"))
	got, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, Settings{Pattern: "log"}, got)
}

func TestLoadCorrupt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("root_path: [unterminated"), 0644))

	got, ok := s.Load()
	assert.False(t, ok)
	assert.True(t, got.IsEmpty())
}

func TestRememberFlushesOnClose(t *testing.T) {
	s := newTestStore(t)
	s.saveDuration = time.Hour

	s.Remember("/a", "x")
	s.Remember("/b", "y")

	_, ok := s.Load()
	require.False(t, ok, "debounced save must not have fired yet")

	require.NoError(t, s.Close())
	got, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, Settings{RootPath: "/b", Pattern: "y"}, got)
}

func TestRememberDebounced(t *testing.T) {
	s := newTestStore(t)
	s.saveDuration = 10 * time.Millisecond

	s.Remember("/c", "z")

	require.Eventually(t, func() bool {
		got, ok := s.Load()
		return ok && got.RootPath == "/c"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSaveCancelsPending(t *testing.T) {
	s := newTestStore(t)
	s.saveDuration = time.Hour

	s.Remember("/old", "old")
	require.True(t, s.Save("/new", "new"))
	require.NoError(t, s.Close())

	got, _ := s.Load()
	assert.Equal(t, "/new", got.RootPath)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	assert.Equal(t, filepath.Join(home, ".treescan", "s.yaml"), ExpandHome("~/.treescan/s.yaml"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
}
