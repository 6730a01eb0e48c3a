package domain

import (
	"context"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// StoredFile is the metadata record for an uploaded file. The bytes live in
// the file store; this row maps a public id to their storage path.
type StoredFile struct {
	ID          *surrealmodels.RecordID `json:"id,omitempty"`
	Filename    string                  `json:"filename"`
	MimeType    string                  `json:"mimeType"`
	SizeBytes   int64                   `json:"sizeBytes"`
	StoragePath string                  `json:"storagePath"`
	CreatedAt   time.Time               `json:"createdAt"`
}

// FileRepository defines the contract for file metadata storage.
type FileRepository interface {
	// Create persists a metadata record and returns it with its id set.
	Create(ctx context.Context, file *StoredFile) (*StoredFile, error)

	// GetByID returns the record for an id, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*StoredFile, error)
}
