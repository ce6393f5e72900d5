package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

// UploadService checks, classifies and stores incoming files.
type UploadService struct {
	store    ports.FileStore
	maxBytes int64
	log      zerolog.Logger
}

func NewUploadService(store ports.FileStore, maxBytes int64, log zerolog.Logger) *UploadService {
	if maxBytes <= 0 {
		maxBytes = domain.MaxUploadBytes
	}
	return &UploadService{store: store, maxBytes: maxBytes, log: log}
}

// Store rejects disallowed media types and files over the size limit, then
// writes the file under its category.
func (s *UploadService) Store(ctx context.Context, in ports.FileInput) (*domain.UploadedFile, error) {
	if !domain.AcceptMediaType(in.MediaType) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedMediaType, in.MediaType)
	}
	if in.Size > s.maxBytes {
		return nil, domain.ErrPayloadTooLarge
	}

	rc, err := in.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()

	category := domain.ClassifyMediaType(in.MediaType)
	file, err := s.store.Save(ctx, category, in.OriginalName, rc, s.maxBytes)
	if err != nil {
		return nil, err
	}
	file.MediaType = in.MediaType
	file.OriginalName = in.OriginalName

	s.log.Info().
		Str("category", string(category)).
		Str("filename", file.Filename).
		Int64("size", file.Size).
		Msg("file stored")
	return file, nil
}

// Open returns a stored file for serving.
func (s *UploadService) Open(ctx context.Context, category domain.FileCategory, name string) (ports.StoredFile, error) {
	return s.store.Open(ctx, category, name)
}

// Discard removes file from storage.
func (s *UploadService) Discard(ctx context.Context, file *domain.UploadedFile) error {
	if file == nil {
		return nil
	}
	if err := s.store.Remove(ctx, file.Category, file.Filename); err != nil {
		return fmt.Errorf("discard upload: %w", err)
	}
	s.log.Info().
		Str("category", string(file.Category)).
		Str("filename", file.Filename).
		Msg("file discarded")
	return nil
}
