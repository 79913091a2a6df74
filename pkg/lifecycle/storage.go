package lifecycle

import (
	"context"
	"image"

	"github.com/phingest/phingest/pkg/derivative"
	"github.com/phingest/phingest/pkg/media"
)

// ObjectStore is a bucket of an object storage.
type ObjectStore interface {
	// Put stores data under key with the given content type and returns
	// the locator of the stored object.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Get returns the content stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
}

// Compressor generates renditions of an image.
type Compressor interface {
	// Compress returns one output per spec, in the order of opts.Specs.
	Compress(
		ctx context.Context, img image.Image, opts derivative.Options,
	) ([]derivative.Output, error)
}

// TagReader reads raw metadata tags of a file.
type TagReader interface {
	// Read returns tags embedded in data, the content of the file at
	// path. A non-empty xmpFile replaces embedded XMP data.
	Read(path string, data []byte, xmpFile string) (media.RawTags, error)
}
