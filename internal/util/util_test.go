package util

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"http://example.com/a.jpg":  true,
		"https://example.com/a.jpg": true,
		"http://":                   false,
		"photo.jpg":                 false,
		"/tmp/https://x":            false,
		"ftp://example.com/a.jpg":   false,
	}
	for in, want := range tests {
		if got := IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestGetBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	b, err := GetBytes(srv.URL + "/ok")
	if err != nil {
		t.Fatalf("GetBytes: %v", err)
	}
	if string(b) != "payload" {
		t.Errorf("body = %q", b)
	}
	if _, err := GetBytes(srv.URL + "/gone"); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Fatalf("dir not created: %v", err)
	}
	if err := EnsureDir(dir); err != nil {
		t.Errorf("second EnsureDir: %v", err)
	}
}

func TestIsImageFile(t *testing.T) {
	for _, p := range []string{"a.jpg", "b.JPEG", "dir/c.png", "d.webp", "e.tiff"} {
		if !IsImageFile(p) {
			t.Errorf("IsImageFile(%q) = false", p)
		}
	}
	for _, p := range []string{"notes.txt", "archive.zip", "noext", ".png.bak"} {
		if IsImageFile(p) {
			t.Errorf("IsImageFile(%q) = true", p)
		}
	}
}
