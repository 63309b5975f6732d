// Package static reads site files from a directory, confined to that directory.
package static

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"solar-proxy/internal/config"
)

// DefaultContentType is used when the file extension has no known MIME type.
const DefaultContentType = "application/octet-stream"

// ErrNotFound is returned when the requested file does not exist under the root.
var ErrNotFound = errors.New("file not found")

// File is a static file read fully into memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Store serves files from a single directory. Lookups go through an os.Root,
// so neither ".." segments nor symlinks can reach outside the directory.
type Store struct {
	root  *os.Root
	dir   string
	index string
}

// NewStore opens the configured static root.
func NewStore(cfg *config.Config) (*Store, error) {
	dir, err := filepath.Abs(cfg.Static.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve static root %s: %w", cfg.Static.Root, err)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open static root %s: %w", dir, err)
	}
	return &Store{root: root, dir: dir, index: cfg.Static.Index}, nil
}

// Dir returns the absolute directory being served.
func (s *Store) Dir() string {
	return s.dir
}

// Close releases the root directory handle.
func (s *Store) Close() error {
	return s.root.Close()
}

// Resolve maps a URL path to a slash-separated path relative to the root.
// The bare root maps to the index document.
func (s *Store) Resolve(urlPath string) string {
	if urlPath == "" || urlPath == "/" {
		return s.index
	}
	rel := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if rel == "" {
		return "."
	}
	return rel
}

// Read loads rel from disk. Nothing is cached: edits are visible on the next request.
func (s *Store) Read(rel string) (*File, error) {
	data, err := s.root.ReadFile(filepath.FromSlash(rel))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return nil, err
	}

	return &File{
		Name:        rel,
		ContentType: ContentType(rel),
		Data:        data,
	}, nil
}

// ContentType infers a MIME type from the file extension.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return DefaultContentType
}
