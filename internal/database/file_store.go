package database

import (
	"context"
	"fmt"

	"github.com/parley-chat/parley/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// FileStore encapsulates database operations for uploaded file metadata.
type FileStore struct {
	db *surrealdb.DB
}

var _ domain.FileRepository = (*FileStore)(nil)

// NewFileStore creates a new FileStore.
func NewFileStore(db *surrealdb.DB) *FileStore {
	return &FileStore{db: db}
}

// Create inserts a metadata row and returns it with its record id.
func (s *FileStore) Create(ctx context.Context, file *domain.StoredFile) (*domain.StoredFile, error) {
	query := "CREATE file CONTENT $data RETURN AFTER"
	params := map[string]any{"data": file}

	created, err := QueryOne[domain.StoredFile](ctx, s.db, query, params)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "file create", Err: err}
	}
	if created == nil {
		return nil, &domain.PersistenceError{Op: "file create", Err: fmt.Errorf("row was not created")}
	}
	return created, nil
}

// GetByID looks up one metadata row by the id portion of its record id.
func (s *FileStore) GetByID(ctx context.Context, id string) (*domain.StoredFile, error) {
	query := "SELECT * FROM file WHERE record::id(id) = $id"
	params := map[string]any{"id": id}

	file, err := QueryOne[domain.StoredFile](ctx, s.db, query, params)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "file lookup", Err: err}
	}
	if file == nil {
		return nil, domain.ErrNotFound
	}
	return file, nil
}
