package tools

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("#!/bin/sh\n"))
	}))
	defer server.Close()

	t.Setenv("PATH", os.Getenv("PATH"))

	resolver := NewPathResolver()
	f := NewFetcher(zerolog.Nop(), resolver, server.URL)
	f.dir = t.TempDir()

	path, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("fetched binary missing: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		t.Errorf("fetched binary is not executable: %v", info.Mode())
	}

	// Later lookups in the same run must succeed without intervention
	resolved, err := resolver.Resolve(YTDLP)
	if err != nil {
		t.Fatalf("Resolve after Fetch failed: %v", err)
	}
	if resolved != path {
		t.Errorf("expected %q, got %q", path, resolved)
	}

	if !strings.HasPrefix(os.Getenv("PATH"), f.dir) {
		t.Errorf("fetch dir should be prepended to PATH, got %q", os.Getenv("PATH"))
	}
}

func TestFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	f := NewFetcher(zerolog.Nop(), NewPathResolver(), server.URL)
	f.dir = t.TempDir()

	_, err := f.Fetch(context.Background())
	if !errors.Is(err, ErrFetch) {
		t.Errorf("expected ErrFetch, got %v", err)
	}
}

func TestReleaseAsset(t *testing.T) {
	cases := map[string]string{
		"linux":   "yt-dlp",
		"darwin":  "yt-dlp_macos",
		"windows": "yt-dlp.exe",
	}
	for goos, expected := range cases {
		asset, err := releaseAsset(goos)
		if err != nil {
			t.Errorf("releaseAsset(%s) failed: %v", goos, err)
			continue
		}
		if asset != expected {
			t.Errorf("releaseAsset(%s): expected %q, got %q", goos, expected, asset)
		}
	}

	if _, err := releaseAsset("plan9"); err == nil {
		t.Error("expected error for unsupported platform")
	}
}
