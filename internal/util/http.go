package util

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// FetchTimeout bounds a single remote fetch.
const FetchTimeout = 12 * time.Second

// IsURL reports whether s looks like an http(s) URL.
func IsURL(s string) bool {
	return len(s) > 7 && (s[:7] == "http://" || (len(s) > 8 && s[:8] == "https://"))
}

// Fetch GETs url and returns the body for the caller to close.
func Fetch(url string) (io.ReadCloser, error) {
	client := http.Client{Timeout: FetchTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}

// GetBytes fetches url fully into memory.
func GetBytes(url string) ([]byte, error) {
	body, err := Fetch(url)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}
