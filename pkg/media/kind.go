// Package media describes supported media kinds and the metadata record
// extracted from their embedded tags. It has no I/O dependencies.
package media

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Kind is a supported kind of media. Each kind knows how to turn raw tags
// into a Record and how its identifiers are shaped, so the ingest pipeline
// does not need to know which kind it processes.
type Kind interface {
	// Name of the kind, e.g. "photo".
	Name() string

	// SuffixLetter starts the local part of identifiers, "P" for photos.
	SuffixLetter() string

	// ViewPath is the path segment of default identifier locations.
	ViewPath() string

	// Extensions lists lower-case file extensions with a leading dot.
	Extensions() []string

	// Extract builds a Record from raw tags.
	Extract(raw RawTags, filename string) (Record, error)
}

// Photo is the kind of still images.
type Photo struct{}

func (Photo) Name() string         { return "photo" }
func (Photo) SuffixLetter() string { return "P" }
func (Photo) ViewPath() string     { return "view" }

func (Photo) Extensions() []string {
	return []string{
		".jpg", ".jpeg", ".png", ".tif", ".tiff", ".webp", ".bmp", ".gif",
	}
}

func (Photo) Extract(raw RawTags, filename string) (Record, error) {
	return Extract(raw, filename)
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Kind)
)

func init() {
	Register(Photo{})
}

// Register makes a kind available for all of its extensions. A later
// registration of the same extension replaces the earlier one.
func Register(k Kind) {
	mu.Lock()
	defer mu.Unlock()
	for _, ext := range k.Extensions() {
		registry[strings.ToLower(ext)] = k
	}
}

// KindFor returns the kind registered for the extension of path.
func KindFor(path string) (Kind, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	mu.RLock()
	defer mu.RUnlock()
	k, ok := registry[ext]
	return k, ok
}

// Extensions returns all registered extensions, sorted.
func Extensions() []string {
	mu.RLock()
	defer mu.RUnlock()
	res := make([]string, 0, len(registry))
	for k := range registry {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}
