//go:build !darwin && !windows

package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// waitFor reads events until path shows up
func waitFor(t *testing.T, w *Watcher, path string) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-w.Events():
			require.True(t, ok, "event channel closed before %s", path)
			if ev.Path == path {
				return
			}
		case <-timeout:
			t.Fatalf("no event for %s", path)
		}
	}
}

func TestWatcherReportsCreatedFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0755))

	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.AddRecursive(root))
	w.Start()
	defer w.Stop()

	top := filepath.Join(root, "new.txt")
	require.NoError(t, os.WriteFile(top, []byte("x"), 0644))
	waitFor(t, w, top)

	nested := filepath.Join(root, "sub", "deep.txt")
	require.NoError(t, os.WriteFile(nested, []byte("x"), 0644))
	waitFor(t, w, nested)
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()

	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.AddRecursive(root))
	w.Start()
	defer w.Stop()

	dir := filepath.Join(root, "later")
	require.NoError(t, os.Mkdir(dir, 0755))

	// Wait until the new directory is watched, then create a file in it
	require.Eventually(t, func() bool {
		for _, p := range w.fs.WatchList() {
			if p == dir {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)

	file := filepath.Join(dir, "a.log")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	waitFor(t, w, file)
}

func TestWatcherStopClosesEvents(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.AddRecursive(t.TempDir()))
	w.Start()

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	_, ok := <-w.Events()
	require.False(t, ok)
}

func TestWatcherMissingRoot(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Stop()

	require.Error(t, w.AddRecursive(filepath.Join(t.TempDir(), "missing")))
}
