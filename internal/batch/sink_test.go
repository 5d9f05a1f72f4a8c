package batch

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
)

func TestDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	s := DirSink{Dir: dir}

	stored, err := s.Save(context.Background(), "a_converted.jpg", []byte("data"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if stored != "a_converted.jpg" {
		t.Errorf("stored = %q, want a_converted.jpg", stored)
	}
	got, err := os.ReadFile(filepath.Join(dir, "a_converted.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "data" {
		t.Errorf("file = %q, want %q", got, "data")
	}
}

func TestDirSinkRenamesCollisions(t *testing.T) {
	dir := t.TempDir()
	s := DirSink{Dir: dir}
	ctx := context.Background()

	// a.png and a.jpg both map to a_converted.jpg
	for i, want := range []string{"a_converted.jpg", "a_converted (1).jpg", "a_converted (2).jpg"} {
		stored, err := s.Save(ctx, "a_converted.jpg", []byte{byte('0' + i)})
		if err != nil {
			t.Fatalf("Save #%d error = %v", i, err)
		}
		if stored != want {
			t.Errorf("Save #%d stored = %q, want %q", i, stored, want)
		}
	}
	for i, name := range []string{"a_converted.jpg", "a_converted (1).jpg", "a_converted (2).jpg"} {
		got, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != string(rune('0'+i)) {
			t.Errorf("%s = %q, first write was overwritten", name, got)
		}
	}
}

func TestDirSinkOverwrite(t *testing.T) {
	dir := t.TempDir()
	s := DirSink{Dir: dir, Overwrite: true}
	ctx := context.Background()

	for _, data := range []string{"old", "new"} {
		stored, err := s.Save(ctx, "a_converted.jpg", []byte(data))
		if err != nil {
			t.Fatal(err)
		}
		if stored != "a_converted.jpg" {
			t.Errorf("stored = %q, want a_converted.jpg", stored)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("dir has %d entries, want 1", len(entries))
	}
	if got, _ := os.ReadFile(filepath.Join(dir, "a_converted.jpg")); string(got) != "new" {
		t.Errorf("file = %q, want new", got)
	}
}

func TestZipSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewZipSink(&buf)
	ctx := context.Background()

	for _, e := range []struct{ name, data, stored string }{
		{"a_converted.jpg", "first", "a_converted.jpg"},
		{"a_converted.jpg", "second", "a_converted (1).jpg"},
		{"b_converted.png", "third", "b_converted.png"},
	} {
		stored, err := s.Save(ctx, e.name, []byte(e.data))
		if err != nil {
			t.Fatalf("Save(%q) error = %v", e.name, err)
		}
		if stored != e.stored {
			t.Errorf("Save(%q) stored = %q, want %q", e.name, stored, e.stored)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("archive unreadable: %v", err)
	}
	want := map[string]string{
		"a_converted.jpg":     "first",
		"a_converted (1).jpg": "second",
		"b_converted.png":     "third",
	}
	if len(zr.File) != len(want) {
		t.Fatalf("archive has %d entries, want %d", len(zr.File), len(want))
	}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		b, _ := io.ReadAll(rc)
		rc.Close()
		if want[f.Name] != string(b) {
			t.Errorf("entry %q = %q, want %q", f.Name, b, want[f.Name])
		}
	}
}

func TestSources(t *testing.T) {
	got := Sources([]string{"dir/a.png", "https://example.com/img/b.jpg?x=1", "http://example.com/"})
	names := []string{"a.png", "b.jpg", "http://example.com/"}
	for i, s := range got {
		if s.Name() != names[i] {
			t.Errorf("source %d name = %q, want %q", i, s.Name(), names[i])
		}
	}
}
