package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipallolabs/treescan/internal/matcher"
	"github.com/lumipallolabs/treescan/internal/model"
)

// sliceSource yields a fixed list of paths
type sliceSource struct {
	paths  []string
	pulled int
	closed bool
}

func (s *sliceSource) Next() (string, bool, error) {
	if s.pulled >= len(s.paths) {
		return "", false, nil
	}
	p := s.paths[s.pulled]
	s.pulled++
	return p, true, nil
}

func (s *sliceSource) Close() { s.closed = true }

func newTestEngine(t *testing.T, root, pattern string, opts EngineOptions) *Engine {
	t.Helper()
	m, err := matcher.New(pattern)
	require.NoError(t, err)
	return NewEngine(root, m, model.NewBuilder(model.NewRoot(filepath.Base(root)), nil), opts)
}

// render lists every node below root as a sorted set of paths,
// directories marked with a trailing slash
func render(root *model.Node) []string {
	var out []string
	root.Walk(func(node *model.Node, depth int) {
		if node == root {
			return
		}
		p := filepath.ToSlash(node.Path)
		if node.IsDir {
			p += "/"
		}
		out = append(out, p)
	})
	sort.Strings(out)
	return out
}

func TestEngineEndToEnd(t *testing.T) {
	tmp := makeFixture(t)
	e := newTestEngine(t, tmp, `\.txt$`, EngineOptions{})
	defer e.Close()

	err := e.Run(context.Background())
	require.ErrorIs(t, err, io.EOF)

	assert.Equal(t, []string{
		"docs/",
		"docs/notes/",
		"docs/notes/todo.txt",
		"docs/readme.txt",
	}, render(e.Tree()))
	assert.Equal(t, model.FindAndAll{Found: 2, All: 3}, e.Snapshot().Counts)

	// A single docs node with exactly two children
	require.Len(t, e.Tree().Children, 1)
	assert.Len(t, e.Tree().Children[0].Children, 2)
}

func TestEngineStepAfterCancelProcessesAtMostOnePath(t *testing.T) {
	src := &sliceSource{paths: []string{"/r/a.txt", "/r/b.txt", "/r/c.txt"}}
	e := newTestEngine(t, "/r", ".*", EngineOptions{Source: src})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, e.Step(ctx))

	cancel()
	// Signal raised before the step: nothing is consumed
	require.ErrorIs(t, e.Step(ctx), ErrCancelled)
	assert.Equal(t, 1, src.pulled)
	assert.Equal(t, uint64(1), e.Snapshot().Counts.All)
}

func TestEngineCancelDuringStep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	src := &sliceSource{paths: []string{"/r/a.txt", "/r/b.txt", "/r/c.txt"}}
	var seen int
	e := newTestEngine(t, "/r", ".*", EngineOptions{
		Source: src,
		OnProgress: func(p Progress) {
			seen++
			// Cancellation arrives while the first path is being processed
			cancel()
		},
	})

	err := e.Run(ctx)
	require.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, 1, src.pulled, "only the in-flight path may be processed")
	assert.Equal(t, 1, seen)
	assert.Equal(t, model.FindAndAll{Found: 1, All: 1}, e.Snapshot().Counts)

	// Resuming continues from the next path
	require.ErrorIs(t, e.Run(context.Background()), io.EOF)
	assert.Equal(t, model.FindAndAll{Found: 3, All: 3}, e.Snapshot().Counts)
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, render(e.Tree()))
}

func TestEnginePauseResumeMatchesUninterrupted(t *testing.T) {
	tmp := t.TempDir()
	for d := 0; d < 4; d++ {
		dir := filepath.Join(tmp, fmt.Sprintf("dir%d", d), "sub")
		require.NoError(t, os.MkdirAll(dir, 0755))
		for f := 0; f < 6; f++ {
			ext := ".log"
			if f%2 == 0 {
				ext = ".txt"
			}
			require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("f%d%s", f, ext)), nil, 0644))
			require.NoError(t, os.WriteFile(filepath.Join(tmp, fmt.Sprintf("dir%d", d), fmt.Sprintf("top%d%s", f, ext)), nil, 0644))
		}
	}

	straight := newTestEngine(t, tmp, `\.txt$`, EngineOptions{})
	defer straight.Close()
	require.ErrorIs(t, straight.Run(context.Background()), io.EOF)

	paused := newTestEngine(t, tmp, `\.txt$`, EngineOptions{})
	defer paused.Close()

	pauses := 0
	for {
		ctx, cancel := context.WithCancel(context.Background())
		var err error
		for i := 0; i < 5 && err == nil; i++ {
			err = paused.Step(ctx)
		}
		if err == nil {
			cancel()
			err = paused.Step(ctx)
			require.ErrorIs(t, err, ErrCancelled)
			pauses++
			continue
		}
		cancel()
		require.ErrorIs(t, err, io.EOF)
		break
	}

	assert.Greater(t, pauses, 0)
	assert.Equal(t, straight.Snapshot().Counts, paused.Snapshot().Counts)
	assert.Equal(t, render(straight.Tree()), render(paused.Tree()))
	assert.Equal(t, model.FindAndAll{Found: 24, All: 48}, paused.Snapshot().Counts)
}

func TestEngineProgressIsMonotonic(t *testing.T) {
	tmp := makeFixture(t)

	var snapshots []Progress
	e := newTestEngine(t, tmp, `\.txt$`, EngineOptions{
		OnProgress: func(p Progress) { snapshots = append(snapshots, p) },
	})
	defer e.Close()
	require.ErrorIs(t, e.Run(context.Background()), io.EOF)

	require.Len(t, snapshots, 3)
	var prev model.FindAndAll
	for _, s := range snapshots {
		assert.LessOrEqual(t, s.Counts.Found, s.Counts.All)
		assert.GreaterOrEqual(t, s.Counts.Found, prev.Found)
		assert.GreaterOrEqual(t, s.Counts.All, prev.All)
		assert.NotEmpty(t, s.CurrentPath)
		prev = s.Counts
	}
}

func TestEngineThrottledProgressFlushesFinalValue(t *testing.T) {
	tmp := makeFixture(t)

	var last Progress
	e := newTestEngine(t, tmp, ".*", EngineOptions{
		ProgressInterval: 1 << 40,
		OnProgress:       func(p Progress) { last = p },
	})
	defer e.Close()
	require.ErrorIs(t, e.Run(context.Background()), io.EOF)

	assert.Equal(t, model.FindAndAll{Found: 3, All: 3}, last.Counts)
}

func TestEngineCancelBetweenStepsFlushesProgress(t *testing.T) {
	src := &sliceSource{paths: []string{"/r/a.txt", "/r/b.txt", "/r/c.txt"}}
	var last Progress
	e := newTestEngine(t, "/r", ".*", EngineOptions{
		Source:           src,
		ProgressInterval: 1 << 40,
		OnProgress:       func(p Progress) { last = p },
	})

	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 3; i++ {
		require.NoError(t, e.Step(ctx))
	}
	cancel()
	require.ErrorIs(t, e.Step(ctx), ErrCancelled)

	assert.Equal(t, model.FindAndAll{Found: 3, All: 3}, e.Snapshot().Counts)
	assert.Equal(t, e.Snapshot(), last)
}

func TestEngineMissingRoot(t *testing.T) {
	e := newTestEngine(t, filepath.Join(t.TempDir(), "gone"), ".*", EngineOptions{})
	defer e.Close()

	err := e.Step(context.Background())
	var perr *PathUnavailableError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Empty(t, e.Tree().Children)
}

func TestEngineClose(t *testing.T) {
	src := &sliceSource{paths: []string{"/r/a"}}
	e := newTestEngine(t, "/r", ".*", EngineOptions{Source: src})
	e.Close()
	e.Close()

	assert.True(t, src.closed)
	assert.ErrorIs(t, e.Step(context.Background()), ErrEngineClosed)
}
