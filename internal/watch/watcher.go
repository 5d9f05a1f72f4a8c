// Package watch converts images as they appear in a directory.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/youruser/reframe/internal/batch"
	"github.com/youruser/reframe/internal/util"
)

// Runner is the part of batch.Driver the watcher needs.
type Runner interface {
	Run(ctx context.Context, sources []batch.Source) (batch.Report, error)
}

// Watcher feeds new or rewritten images in Dir to a Runner one at a time.
type Watcher struct {
	Dir      string
	Suffix   string
	Debounce time.Duration
	Runner   Runner
	Logger   *log.Logger

	// Converted, when set, receives the report of every run.
	Converted chan<- batch.Report

	fsw  *fsnotify.Watcher
	done chan struct{}

	mu      sync.Mutex // guards pending
	pending map[string]*time.Timer
	runMu   sync.Mutex // one conversion at a time; guards stopped
	stopped bool
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return w.Stop()
}

// Start begins watching Dir. Events are handled on a background goroutine
// until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(w.Dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch folder %s: %w", w.Dir, err)
	}
	w.logger().Info("Watching folder", "dir", w.Dir)

	w.runMu.Lock()
	w.stopped = false
	w.runMu.Unlock()

	w.fsw = fsw
	w.pending = map[string]*time.Timer{}
	w.done = make(chan struct{})
	go w.processEvents(ctx)
	return nil
}

// Stop closes the underlying watcher and drops conversions not yet started.
func (w *Watcher) Stop() error {
	if w.fsw == nil {
		return nil
	}
	err := w.fsw.Close()
	<-w.done
	w.stopPending()

	// wait out a conversion already in flight; timers that fire later see stopped
	w.runMu.Lock()
	w.stopped = true
	w.runMu.Unlock()
	return err
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !w.wants(ev.Name) {
				continue
			}
			w.schedule(ctx, ev.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger().Warn("Watcher error", "err", err)
		}
	}
}

// wants skips hidden files, non-images and our own outputs.
func (w *Watcher) wants(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || !util.IsImageFile(base) {
		return false
	}
	return w.Suffix == "" || !strings.HasSuffix(batch.StripExtension(base), w.Suffix)
}

// schedule (re)arms the debounce timer for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.Debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.convert(ctx, path)
	})
}

func (w *Watcher) convert(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	w.runMu.Lock()
	if w.stopped {
		w.runMu.Unlock()
		return
	}
	rep, err := w.Runner.Run(ctx, []batch.Source{batch.FileSource(path)})
	w.runMu.Unlock()
	if err != nil {
		w.logger().Error("Conversion stopped", "file", path, "err", err)
		return
	}
	if w.Converted != nil {
		select {
		case w.Converted <- rep:
		case <-ctx.Done():
		}
	}
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for p, t := range w.pending {
		t.Stop()
		delete(w.pending, p)
	}
}

func (w *Watcher) logger() *log.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return log.Default()
}
