package iostorage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/phingest/phingest/pkg/lifecycle"
)

// Dir stores objects as files of a local directory. Keys may contain
// slashes, they become subdirectories.
type Dir struct {
	root string
}

var _ lifecycle.ObjectStore = (*Dir)(nil)

// NewDir creates a directory store, creating root if needed.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, UploadError(root, "", err)
	}
	return &Dir{root: root}, nil
}

// Put writes data to root/key and returns the file path.
func (d *Dir) Put(
	_ context.Context,
	key string,
	data []byte,
	_ string,
) (string, error) {
	path, err := d.path(key)
	if err != nil {
		return "", UploadError(d.root, key, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", UploadError(d.root, key, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", UploadError(d.root, key, err)
	}
	return path, nil
}

// Get reads root/key.
func (d *Dir) Get(_ context.Context, key string) ([]byte, error) {
	path, err := d.path(key)
	if err != nil {
		return nil, DownloadError(d.root, key, err)
	}
	res, err := os.ReadFile(path)
	if err != nil {
		return nil, DownloadError(d.root, key, err)
	}
	return res, nil
}

func (d *Dir) path(key string) (string, error) {
	key = filepath.FromSlash(key)
	if !filepath.IsLocal(key) {
		return "", os.ErrInvalid
	}
	return filepath.Join(d.root, key), nil
}
