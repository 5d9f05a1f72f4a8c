package batch

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/youruser/reframe/internal/util"
)

// Source is one selected input. Open returns a handle the driver closes when it is
// done with the file, whatever the outcome.
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

type fileSource struct{ path string }

// FileSource reads a local file. Its name is the base name.
func FileSource(p string) Source { return fileSource{path: p} }

func (s fileSource) Name() string { return filepath.Base(s.path) }

func (s fileSource) Open(context.Context) (io.ReadCloser, error) {
	return os.Open(s.path)
}

type bytesSource struct {
	name string
	data []byte
}

// BytesSource serves an in-memory blob.
func BytesSource(name string, data []byte) Source { return bytesSource{name: name, data: data} }

func (s bytesSource) Name() string { return s.name }

func (s bytesSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

type urlSource struct{ url string }

// URLSource downloads its content when opened.
func URLSource(u string) Source { return urlSource{url: u} }

func (s urlSource) Name() string {
	if u, err := url.Parse(s.url); err == nil && u.Path != "" && u.Path != "/" {
		return path.Base(u.Path)
	}
	return s.url
}

func (s urlSource) Open(context.Context) (io.ReadCloser, error) {
	return util.Fetch(s.url)
}

// Sources maps command-line arguments to sources, in order.
func Sources(args []string) []Source {
	out := make([]Source, 0, len(args))
	for _, a := range args {
		if util.IsURL(a) {
			out = append(out, URLSource(a))
			continue
		}
		out = append(out, FileSource(a))
	}
	return out
}
