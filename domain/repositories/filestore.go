package repositories

import (
	"context"
	"io"
)

// FileStore is a minimal file-oriented storage abstraction shared by the
// audio acquisition adapter and the classifier model store. Paths are
// forward-slash separated and relative to the store root. Implementations
// must be safe for concurrent use.
type FileStore interface {
	// Read opens the named file for reading. If the file does not exist,
	// an error wrapping os.ErrNotExist is returned.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write opens the named file for writing, truncating any existing
	// content. The caller must close the returned WriteCloser to flush.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named file. Deleting a missing file is not an
	// error (idempotent).
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)
}
