package watch

import (
	"context"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/youruser/reframe/internal/batch"
)

func TestWatcherConvertsNewImages(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	logger := log.New(io.Discard)

	reports := make(chan batch.Report, 4)
	w := &Watcher{
		Dir:      dir,
		Suffix:   batch.DefaultSuffix,
		Debounce: 200 * time.Millisecond,
		Logger:   logger,
		Runner: &batch.Driver{
			Options: batch.DefaultOptions(),
			Sink:    batch.DirSink{Dir: out, Overwrite: true},
			Logger:  logger,
		},
		Converted: reports,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := imaging.New(20, 10, color.NRGBA{B: 255, A: 255})
	if err := imaging.Save(src, filepath.Join(dir, "shot.png")); err != nil {
		t.Fatal(err)
	}

	select {
	case rep := <-reports:
		if len(rep.Outcomes) != 1 || rep.Outcomes[0].Name != "shot.png" || rep.Outcomes[0].Err != nil {
			t.Fatalf("report = %+v, want shot.png converted", rep)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for conversion")
	}

	if _, err := os.Stat(filepath.Join(out, "shot_converted.jpg")); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestWatcherWants(t *testing.T) {
	w := &Watcher{Suffix: "_converted"}
	tests := []struct {
		path string
		want bool
	}{
		{"/in/a.png", true},
		{"/in/b.JPG", true},
		{"/in/c.webp", true},
		{"/in/a_converted.jpg", false},
		{"/in/.a.png", false},
		{"/in/readme.md", false},
	}
	for _, tt := range tests {
		if got := w.wants(tt.path); got != tt.want {
			t.Errorf("wants(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

type countingRunner struct {
	mu   sync.Mutex
	runs int
}

func (r *countingRunner) Run(context.Context, []batch.Source) (batch.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs++
	return batch.Report{}, nil
}

func TestWatcherNoConversionAfterStop(t *testing.T) {
	runner := &countingRunner{}
	w := &Watcher{
		Dir:      t.TempDir(),
		Debounce: time.Hour,
		Runner:   runner,
		Logger:   log.New(io.Discard),
	}

	// Stop without cancelling ctx, then let a timer that already fired land
	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	w.convert(ctx, filepath.Join(w.Dir, "late.png"))

	runner.mu.Lock()
	defer runner.mu.Unlock()
	if runner.runs != 0 {
		t.Errorf("runs = %d, want none after Stop", runner.runs)
	}
}
