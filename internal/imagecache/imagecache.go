// Package imagecache provides thread-safe caching of source image files.
//
// Interactive sessions tend to hit the same screenshot repeatedly: once to
// extract text, then several times to re-render overlays while the caller
// tunes line text or style. The cache keeps the raw encoded bytes plus the
// decoded header (dimensions, MIME type) keyed by file path, so only the
// first touch pays for disk I/O.
//
// Entries are cached by the exact path string provided; different spellings
// of the same file (relative vs absolute) get separate entries. Cached
// entries remain until Evict or Clear is called, so long-running processes
// handling many distinct images should clean up periodically.
package imagecache

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Entry holds one cached source image.
type Entry struct {
	// Data is the raw encoded file contents.
	Data []byte

	// Width and Height are the decoded pixel dimensions.
	Width  int
	Height int

	// MIME is the media type inferred from the file extension.
	MIME string
}

// Cache caches image files by path. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New returns an empty cache ready for use.
func New() *Cache {
	return &Cache{
		entries: make(map[string]*Entry),
	}
}

// Load returns the cached entry for path, reading and decoding the file
// header on first access.
func (c *Cache) Load(path string) (*Entry, error) {
	c.mu.RLock()
	if entry, ok := c.entries[path]; ok {
		c.mu.RUnlock()
		return entry, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	entry := &Entry{
		Data:   data,
		Width:  cfg.Width,
		Height: cfg.Height,
		MIME:   MIMEForPath(path),
	}

	c.mu.Lock()
	c.entries[path] = entry
	c.mu.Unlock()

	return entry, nil
}

// Evict removes the entry for path, if present.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Clear drops every cached entry, freeing the associated memory.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*Entry)
	c.mu.Unlock()
}

// MIMEForPath maps a file extension to its image media type. Unrecognized
// extensions fall back to PNG, the most common source format.
func MIMEForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	default:
		return "image/png"
	}
}
