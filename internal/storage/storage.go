package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Store defines the interface for a file storage backend.
type Store interface {
	Save(ctx context.Context, path string, reader io.Reader) (int64, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}

// AferoStore implements Store over any afero filesystem. Production uses a
// base-path OS filesystem rooted at the upload directory; tests use the
// in-memory filesystem.
type AferoStore struct {
	fs afero.Fs
}

var _ Store = (*AferoStore)(nil)

// NewAferoStore creates a store over the given filesystem.
func NewAferoStore(fs afero.Fs) *AferoStore {
	return &AferoStore{fs: fs}
}

// NewUploadStore creates a store rooted at dir on the OS filesystem. Paths
// handed to the store cannot escape the root.
func NewUploadStore(dir string) *AferoStore {
	return NewAferoStore(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// Save writes the content of the reader to the given path, creating parent
// directories as needed.
func (s *AferoStore) Save(ctx context.Context, path string, reader io.Reader) (int64, error) {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, err
	}
	f, err := s.fs.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(f, reader)
}

// Open opens a stored file for reading.
func (s *AferoStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.fs.OpenFile(path, os.O_RDONLY, 0)
}

// Delete removes a stored file.
func (s *AferoStore) Delete(ctx context.Context, path string) error {
	return s.fs.Remove(path)
}
