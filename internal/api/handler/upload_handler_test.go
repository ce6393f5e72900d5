package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

func TestUploadHandler_Upload(t *testing.T) {
	uploads := &stubUploadService{
		storeFn: func(_ context.Context, in ports.FileInput) (*domain.UploadedFile, error) {
			return &domain.UploadedFile{
				MediaType: in.MediaType, OriginalName: in.OriginalName,
				Category: domain.CategoryDocument, Filename: "document_1.pdf",
				Path: "/uploads/document/document_1.pdf", Size: in.Size,
			}, nil
		},
	}
	h := NewUploadHandler(uploads)

	body, contentType := multipartBody(t, nil, UploadField, "cv.pdf", "application/pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, rec := newContext(t, req, nil, nil)

	if err := h.Upload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["path"] != "/uploads/document/document_1.pdf" || resp["category"] != "document" || resp["mediaType"] != "application/pdf" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestUploadHandler_MissingFile(t *testing.T) {
	h := NewUploadHandler(&stubUploadService{})

	body, contentType := multipartBody(t, map[string]string{"other": "x"}, "", "", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, _ := newContext(t, req, nil, nil)

	var he *echo.HTTPError
	if err := h.Upload(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUploadHandler_Rejected(t *testing.T) {
	uploads := &stubUploadService{
		storeFn: func(context.Context, ports.FileInput) (*domain.UploadedFile, error) {
			return nil, domain.ErrUnsupportedMediaType
		},
	}
	h := NewUploadHandler(uploads)

	body, contentType := multipartBody(t, nil, UploadField, "a.txt", "text/plain", []byte("hi"))
	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, _ := newContext(t, req, nil, nil)

	if err := h.Upload(c); !errors.Is(err, domain.ErrUnsupportedMediaType) {
		t.Fatalf("expected ErrUnsupportedMediaType, got %v", err)
	}
}

// servedFrom returns an upload service that opens files from dir.
func servedFrom(dir string) *stubUploadService {
	return &stubUploadService{
		openFn: func(_ context.Context, category domain.FileCategory, name string) (ports.StoredFile, error) {
			f, err := os.Open(filepath.Join(dir, string(category), name))
			if err != nil {
				return nil, domain.ErrNotFound
			}
			return f, nil
		},
	}
}

func serve(t *testing.T, h *UploadHandler, category, name string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/uploads/"+category+"/"+name, nil)
	c, rec := newContext(t, req, nil, nil)
	c.SetParamNames("category", "name")
	c.SetParamValues(category, name)
	return rec, h.Serve(c)
}

func TestUploadHandler_ServeUsesContentNotExtension(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "image"), 0o755); err != nil {
		t.Fatal(err)
	}
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	if err := os.WriteFile(filepath.Join(dir, "image", "image_1.png"), png, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "image", "image_2.html"), []byte("<html><script>alert(1)</script></html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := NewUploadHandler(servedFrom(dir))

	rec, err := serve(t, h, "image", "image_1.png")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Header().Get(echo.HeaderContentType); got != "image/png" {
		t.Errorf("png: expected image/png, got %q", got)
	}
	if rec.Header().Get(echo.HeaderXContentTypeOptions) != "nosniff" {
		t.Error("png: nosniff header missing")
	}
	if rec.Header().Get(echo.HeaderContentDisposition) != "" {
		t.Error("an accepted image is served inline")
	}

	rec, err = serve(t, h, "image", "image_2.html")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Header().Get(echo.HeaderContentType); got != "application/octet-stream" {
		t.Errorf("html: expected application/octet-stream, got %q", got)
	}
	if rec.Header().Get(echo.HeaderXContentTypeOptions) != "nosniff" {
		t.Error("html: nosniff header missing")
	}
	if rec.Header().Get(echo.HeaderContentDisposition) != "attachment" {
		t.Error("html: expected an attachment")
	}
	if rec.Body.Len() == 0 {
		t.Error("html: the stored bytes must still be returned")
	}
}

func TestUploadHandler_ServeMissing(t *testing.T) {
	h := NewUploadHandler(servedFrom(t.TempDir()))
	if _, err := serve(t, h, "image", "nope.png"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
