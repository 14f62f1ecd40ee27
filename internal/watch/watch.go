// Package watch re-ingests a data file whenever it changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/huangsam/ragboard/core"
	"github.com/huangsam/ragboard/internal/contract"
	"github.com/huangsam/ragboard/internal/outwriter"
	"github.com/huangsam/ragboard/schema"
	"go.uber.org/zap"
)

// RenderFunc receives the outcome of every reload. Exactly one of result and err is set.
type RenderFunc func(result schema.IngestResult, err error)

// Watcher reloads one data file into a Board, debouncing bursts of writes.
type Watcher struct {
	path     string
	board    *core.Board
	render   RenderFunc
	debounce time.Duration
	logger   *zap.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the file must stay quiet before it is reloaded.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for watcher diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New returns a watcher for path. The file must exist and must not be a directory.
func New(path string, board *core.Board, render RenderFunc, opts ...Option) (*Watcher, error) {
	if path == "" || path == contract.StdinDataSource {
		return nil, errors.New("watch needs a file path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	w := &Watcher{
		path:     abs,
		board:    board,
		render:   render,
		debounce: contract.DefaultDebounce,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run loads the file once, then reloads it after every change until ctx is done.
// The parent directory is watched so editors that replace the file on save are handled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("watching", zap.String("path", w.path), zap.Duration("debounce", w.debounce))

	w.reload()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event", zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			w.reload()
		}
	}
}

// relevant reports whether event can change the watched file's contents.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	if _, err := os.Stat(w.path); errors.Is(err, os.ErrNotExist) {
		w.logger.Debug("file missing, waiting for it to reappear", zap.String("path", w.path))
		return
	}
	result, err := core.IngestFile(w.board, w.path, nil)
	if err != nil {
		w.logger.Warn("reload failed", zap.String("path", w.path), zap.Error(err))
	}
	w.render(result, err)
}

// ExecuteWatch renders the watched file's latest period on every change until ctx is done.
func ExecuteWatch(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	if len(cfg.DataFiles) != 1 {
		return fmt.Errorf("watch needs exactly one data file (got %d)", len(cfg.DataFiles))
	}
	board, err := core.NewBoardFromConfig(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	render := func(result schema.IngestResult, err error) {
		if err != nil {
			fmt.Fprintln(os.Stderr, core.FailureMessage(err))
			return
		}
		stamp := time.Now().Format(time.TimeOnly)
		fmt.Printf("\n[%s] %s\n", stamp, result.Message())
		view := board.View(result.Current(), cfg.Sort)
		if err := outwriter.WritePeriodView(view, cfg, true); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	w, err := New(cfg.DataFiles[0], board, render,
		WithDebounce(cfg.Debounce),
		WithLogger(core.LoggerFrom(ctx)),
	)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
