package ports

import (
	"context"
	"io"
	"io/fs"

	"github.com/dars410/catalog-api/internal/core/domain"
)

// FileStore writes uploaded bytes under a category directory.
type FileStore interface {
	Save(ctx context.Context, category domain.FileCategory, originalName string, r io.Reader, maxBytes int64) (*domain.UploadedFile, error)
	// Open returns a stored file, or domain.ErrNotFound.
	Open(ctx context.Context, category domain.FileCategory, name string) (StoredFile, error)
	Remove(ctx context.Context, category domain.FileCategory, name string) error
}

// StoredFile is an opened upload ready to be served.
type StoredFile interface {
	io.ReadSeekCloser
	Stat() (fs.FileInfo, error)
}

// FileInput is an incoming multipart file as seen by the upload service.
type FileInput struct {
	MediaType    string
	OriginalName string
	Size         int64
	Open         func() (io.ReadCloser, error)
}

// UploadService accepts, classifies and stores uploads.
type UploadService interface {
	Store(ctx context.Context, in FileInput) (*domain.UploadedFile, error)
	Open(ctx context.Context, category domain.FileCategory, name string) (StoredFile, error)
	// Discard removes a file stored by Store whose owner could not be saved.
	Discard(ctx context.Context, file *domain.UploadedFile) error
}
