package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/youruser/reframe/internal/util"
)

// Sink delivers an encoded artifact to the user and reports the name it was
// stored under, which differs from name when a sink renames duplicates.
type Sink interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// maxRenames bounds the " (n)" counter a DirSink tries before giving up.
const maxRenames = 10000

// DirSink writes artifacts into Dir, creating it on first use. An existing file
// is kept and the new one gets a " (n)" counter, unless Overwrite is set.
type DirSink struct {
	Dir       string
	Overwrite bool
}

func (s DirSink) Save(_ context.Context, name string, data []byte) (string, error) {
	if err := util.EnsureDir(s.Dir); err != nil {
		return "", err
	}
	base := filepath.Base(name)
	if s.Overwrite {
		return base, os.WriteFile(filepath.Join(s.Dir, base), data, 0o644)
	}

	for n := 0; n < maxRenames; n++ {
		candidate := numbered(base, n)
		f, err := os.OpenFile(filepath.Join(s.Dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", err
		}
		return candidate, f.Close()
	}
	return "", fmt.Errorf("%s: no free name after %d attempts", base, maxRenames)
}

// ZipSink streams artifacts into a zip archive. Close must be called to
// write the central directory.
type ZipSink struct {
	zw   *zip.Writer
	seen map[string]bool
}

func NewZipSink(w io.Writer) *ZipSink {
	return &ZipSink{zw: zip.NewWriter(w), seen: map[string]bool{}}
}

// Save stores data uncompressed; JPEG and PNG do not shrink further.
// Repeated names get a " (n)" counter the way browsers rename downloads.
func (s *ZipSink) Save(_ context.Context, name string, data []byte) (string, error) {
	stored := s.unique(name)
	w, err := s.zw.CreateHeader(&zip.FileHeader{
		Name:     stored,
		Method:   zip.Store,
		Modified: time.Now(),
	})
	if err != nil {
		return "", err
	}
	if _, err := w.Write(data); err != nil {
		return "", err
	}
	return stored, nil
}

func (s *ZipSink) unique(name string) string {
	for n := 0; ; n++ {
		if c := numbered(name, n); !s.seen[c] {
			s.seen[c] = true
			return c
		}
	}
}

// numbered returns name for n == 0 and "base (n).ext" otherwise.
func numbered(name string, n int) string {
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), n, ext)
}

func (s *ZipSink) Close() error { return s.zw.Close() }

// Artifact is an in-memory output.
type Artifact struct {
	Name string
	Data []byte
}

// MemorySink collects artifacts in memory.
type MemorySink struct {
	mu        sync.Mutex
	Artifacts []Artifact
}

func (s *MemorySink) Save(_ context.Context, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Artifacts = append(s.Artifacts, Artifact{Name: name, Data: data})
	return name, nil
}
