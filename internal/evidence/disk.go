package evidence

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStore writes evidence files to a local directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a DiskStore rooted at dir.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

// Put writes the file to disk under the given key. The returned
// reference is the key itself; files are served relative to the
// uploads directory.
func (d *DiskStore) Put(ctx context.Context, key string, contentType string, r io.Reader) (string, error) {
	// Keys are generated server-side, but reject path traversal anyway.
	if filepath.Base(key) != key {
		return "", fmt.Errorf("%w: invalid key %q", ErrStoreFailed, key)
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	path := filepath.Join(d.dir, key)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	n, err := io.Copy(f, io.LimitReader(r, MaxEvidenceSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	if n > MaxEvidenceSize {
		_ = os.Remove(path)
		return "", ErrTooLarge
	}

	return key, nil
}
