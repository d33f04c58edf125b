package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettleDelay is how long the token file must stay quiet before it
// is re-read. Editors often write a file in several steps.
const DefaultSettleDelay = 100 * time.Millisecond

// Watcher follows one token file.
type Watcher struct {
	path     string
	settle   time.Duration
	fs       *fsnotify.Watcher
	logger   *slog.Logger
	onChange func(token string)
	last     string
	done     chan struct{}
}

// Watch starts following path. onChange runs on the watcher's goroutine
// with the new token ("" when the file is gone or holds a placeholder),
// and only when the value differs from the one read at start. The watch
// ends when ctx is done.
//
// The parent directory is watched so replacing the file by rename is seen.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func(token string)) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve token file path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	initial, err := ReadFile(abs)
	if err != nil {
		logger.Warn("token file unreadable", "path", abs, "error", err)
	}

	w := &Watcher{
		path:     abs,
		settle:   DefaultSettleDelay,
		fs:       fsw,
		logger:   logger,
		onChange: onChange,
		last:     initial,
		done:     make(chan struct{}),
	}
	go w.run(ctx)
	return w, nil
}

// Done is closed once the watcher has stopped.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer w.fs.Close()

	timer := time.NewTimer(w.settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			timer.Reset(w.settle)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("token file watch error", "error", err)
		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	token, err := ReadFile(w.path)
	if err != nil {
		w.logger.Warn("token file unreadable", "path", w.path, "error", err)
		return
	}
	if token == w.last {
		return
	}
	w.last = token
	w.logger.Info("token file changed", "path", w.path, "set", token != "")
	w.onChange(token)
}
