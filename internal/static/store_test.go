package static

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"solar-proxy/internal/config"
)

// newTestStore creates a Store over a temp dir seeded with files.
func newTestStore(t *testing.T, files map[string]string) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := &config.Config{Static: config.StaticConfig{Root: dir, Index: "index.html"}}
	s, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, dir
}

func TestStore_Resolve(t *testing.T) {
	s, _ := newTestStore(t, nil)

	tests := []struct {
		urlPath string
		want    string
	}{
		{"/", "index.html"},
		{"", "index.html"},
		{"/index.html", "index.html"},
		{"/css/style.css", "css/style.css"},
		{"/css/", "css"},
		{"//double//slash.js", "double/slash.js"},
		{"/../../etc/passwd", "etc/passwd"},
		{"/css/../../secret.txt", "secret.txt"},
		{"/..", "."},
	}

	for _, tt := range tests {
		t.Run(tt.urlPath, func(t *testing.T) {
			if got := s.Resolve(tt.urlPath); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.urlPath, got, tt.want)
			}
		})
	}
}

func TestStore_Read(t *testing.T) {
	s, _ := newTestStore(t, map[string]string{
		"index.html":    "<h1>Solar System</h1>",
		"js/script.js":  "console.log('planets')",
		"data/blob.qqzz": "\x00\x01\x02",
	})

	f, err := s.Read("js/script.js")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(f.Data) != "console.log('planets')" {
		t.Errorf("Data = %q, want file contents", string(f.Data))
	}
	if !strings.Contains(f.ContentType, "javascript") {
		t.Errorf("ContentType = %q, want a javascript type", f.ContentType)
	}

	f, err = s.Read("data/blob.qqzz")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if f.ContentType != DefaultContentType {
		t.Errorf("ContentType = %q, want %q", f.ContentType, DefaultContentType)
	}
}

func TestStore_Read_NotFound(t *testing.T) {
	s, _ := newTestStore(t, nil)

	_, err := s.Read("missing.html")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Read() error = %v, want ErrNotFound", err)
	}
}

func TestStore_Read_Directory(t *testing.T) {
	s, _ := newTestStore(t, map[string]string{"css/style.css": "body{}"})

	_, err := s.Read("css")
	if err == nil {
		t.Fatal("Read() expected error for a directory, got nil")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("Read() error = %v, directory should not be reported as not found", err)
	}
}

func TestStore_Read_NoCache(t *testing.T) {
	s, dir := newTestStore(t, map[string]string{"index.html": "v1"})

	if f, err := s.Read("index.html"); err != nil || string(f.Data) != "v1" {
		t.Fatalf("Read() = %v, %v; want v1", f, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := s.Read("index.html")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(f.Data) != "v2" {
		t.Errorf("Data = %q, want edited contents %q", string(f.Data), "v2")
	}
}

func TestStore_Read_SymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}
	outside := filepath.Join(t.TempDir(), "secret.txt")
	if err := os.WriteFile(outside, []byte("top secret"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, dir := newTestStore(t, nil)
	if err := os.Symlink(outside, filepath.Join(dir, "leak.txt")); err != nil {
		t.Fatal(err)
	}

	f, err := s.Read("leak.txt")
	if err == nil {
		t.Fatalf("Read() = %q, want error for symlink leaving the root", string(f.Data))
	}
}

func TestNewStore_MissingRoot(t *testing.T) {
	cfg := &config.Config{Static: config.StaticConfig{Root: "/nonexistent/site", Index: "index.html"}}
	if _, err := NewStore(cfg); err == nil {
		t.Fatal("NewStore() expected error for missing root, got nil")
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		name       string
		wantPrefix string
	}{
		{"index.html", "text/html"},
		{"style.css", "text/css"},
		{"data.json", "application/json"},
		{"logo.png", "image/png"},
		{"LICENSE", DefaultContentType},
		{"archive.unknownext", DefaultContentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContentType(tt.name); !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("ContentType(%q) = %q, want prefix %q", tt.name, got, tt.wantPrefix)
			}
		})
	}
}
