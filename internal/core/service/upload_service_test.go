package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

func fileInput(mediaType, name, body string) ports.FileInput {
	return ports.FileInput{
		MediaType:    mediaType,
		OriginalName: name,
		Size:         int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func TestUploadService_Store(t *testing.T) {
	store := &stubFileStore{}
	svc := NewUploadService(store, 0, zerolog.Nop())

	file, err := svc.Store(context.Background(), fileInput("image/png", "avatar.png", "png-bytes"))
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if file.Category != domain.CategoryImage || store.category != domain.CategoryImage {
		t.Fatalf("expected image category, got %s", file.Category)
	}
	if file.Filename != "image_1700000000000.png" {
		t.Fatalf("unexpected filename: %s", file.Filename)
	}
	if file.MediaType != "image/png" || file.OriginalName != "avatar.png" {
		t.Fatalf("metadata not carried over: %+v", file)
	}
	if store.data != "png-bytes" {
		t.Fatalf("unexpected stored bytes: %q", store.data)
	}
}

func TestUploadService_PDFIsDocument(t *testing.T) {
	store := &stubFileStore{}
	svc := NewUploadService(store, 0, zerolog.Nop())

	file, err := svc.Store(context.Background(), fileInput("application/pdf", "report.pdf", "%PDF"))
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if file.Category != domain.CategoryDocument {
		t.Fatalf("expected document category, got %s", file.Category)
	}
}

func TestUploadService_Rejects(t *testing.T) {
	store := &stubFileStore{}
	svc := NewUploadService(store, 8, zerolog.Nop())

	if _, err := svc.Store(context.Background(), fileInput("text/plain", "notes.txt", "hi")); !errors.Is(err, domain.ErrUnsupportedMediaType) {
		t.Fatalf("text/plain: expected ErrUnsupportedMediaType, got %v", err)
	}
	if _, err := svc.Store(context.Background(), fileInput("image/jpeg", "big.jpg", "0123456789")); !errors.Is(err, domain.ErrPayloadTooLarge) {
		t.Fatalf("oversize: expected ErrPayloadTooLarge, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("rejected files must not be stored: %v", store.saved)
	}
}

func TestUploadService_Discard(t *testing.T) {
	store := &stubFileStore{}
	svc := NewUploadService(store, 0, zerolog.Nop())

	file, err := svc.Store(context.Background(), fileInput("image/gif", "a.gif", "gif"))
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := svc.Discard(context.Background(), file); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if len(store.removed) != 1 || store.removed[0] != "image/image_1700000000000.gif" {
		t.Fatalf("unexpected removals: %v", store.removed)
	}
	if err := svc.Discard(context.Background(), nil); err != nil {
		t.Fatalf("discarding nothing must succeed: %v", err)
	}
}
