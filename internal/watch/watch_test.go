package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/huangsam/ragboard/core"
	"github.com/huangsam/ragboard/core/parse"
	"github.com/huangsam/ragboard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const header = "Year\tPI\tStrategic Target\tObjective\tRAG\n"

type reload struct {
	result schema.IngestResult
	err    error
}

func startWatcher(t *testing.T, path string, board *core.Board) (<-chan reload, context.CancelFunc, <-chan error) {
	t.Helper()
	reloads := make(chan reload, 16)
	w, err := New(path, board, func(result schema.IngestResult, err error) {
		reloads <- reload{result: result, err: err}
	}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return reloads, cancel, done
}

func next(t *testing.T, reloads <-chan reload) reload {
	t.Helper()
	select {
	case r := <-reloads:
		return r
	case <-time.After(5 * time.Second):
		require.FailNow(t, "timed out waiting for reload")
		return reload{}
	}
}

// nextOK skips reloads that caught the file mid-write.
func nextOK(t *testing.T, reloads <-chan reload) reload {
	t.Helper()
	for {
		if r := next(t, reloads); r.err == nil {
			return r
		}
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.tsv")
	require.NoError(t, os.WriteFile(path, []byte(header+"2025\tPI1\tGrowth\tO1\tOn track\n"), 0o644))

	board := core.NewBoard(nil)
	reloads, cancel, done := startWatcher(t, path, board)

	first := next(t, reloads)
	require.NoError(t, first.err)
	assert.Equal(t, schema.NewPeriodKey("2025", "PI1"), first.result.Current())
	assert.Equal(t, "status.tsv", first.result.Source)

	require.NoError(t, os.WriteFile(path, []byte(header+"2025\tPI2\tGrowth\tO1\tAt risk\n"), 0o644))
	second := nextOK(t, reloads)
	assert.Equal(t, schema.NewPeriodKey("2025", "PI2"), second.result.Current())
	assert.Equal(t, 2, board.Snapshot().Len())

	cancel()
	assert.NoError(t, <-done)
}

func TestWatcherReportsParseErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.csv")
	require.NoError(t, os.WriteFile(path, []byte("Year,PI\n2025,PI1\n"), 0o644))

	board := core.NewBoard(nil)
	reloads, cancel, done := startWatcher(t, path, board)

	r := next(t, reloads)
	require.Error(t, r.err)
	assert.ErrorIs(t, r.err, parse.ErrMissingColumns)
	assert.Equal(t, 0, board.Snapshot().Len())

	cancel()
	assert.NoError(t, <-done)
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "status.tsv")
	require.NoError(t, os.WriteFile(path, []byte(header+"2025\tPI1\tGrowth\tO1\tDone\n"), 0o644))

	reloads, cancel, done := startWatcher(t, path, core.NewBoard(nil))
	next(t, reloads)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.tsv"), []byte("noise"), 0o644))
	select {
	case r := <-reloads:
		t.Fatalf("unexpected reload: %+v", r)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestNewRejectsBadPaths(t *testing.T) {
	board := core.NewBoard(nil)
	noop := func(schema.IngestResult, error) {}

	_, err := New("", board, noop)
	assert.Error(t, err)

	_, err = New("-", board, noop)
	assert.Error(t, err)

	_, err = New(filepath.Join(t.TempDir(), "missing.tsv"), board, noop)
	assert.Error(t, err)

	_, err = New(t.TempDir(), board, noop)
	assert.ErrorContains(t, err, "is a directory")
}

func TestRelevant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.tsv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	w, err := New(path, core.NewBoard(nil), func(schema.IngestResult, error) {})
	require.NoError(t, err)

	assert.True(t, w.relevant(fsnotify.Event{Name: path, Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: path, Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: path, Op: fsnotify.Chmod}))
	assert.False(t, w.relevant(fsnotify.Event{Name: path + ".swp", Op: fsnotify.Write}))
}
