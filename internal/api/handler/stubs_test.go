package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dars410/catalog-api/internal/api/validation"
	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, login, password string) (*ports.TokenPair, error)
	refreshFn  func(ctx context.Context, token string) (*ports.TokenPair, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, login, password string) (*ports.TokenPair, error) {
	return s.loginFn(ctx, login, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, token string) (*ports.TokenPair, error) {
	return s.refreshFn(ctx, token)
}

type stubUserService struct {
	listFn   func(ctx context.Context, search string) ([]domain.User, error)
	getFn    func(ctx context.Context, id int64) (*domain.User, error)
	updateFn func(ctx context.Context, actor domain.Principal, id int64, fields domain.Fields) (*domain.User, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubUserService) List(ctx context.Context, search string) ([]domain.User, error) {
	return s.listFn(ctx, search)
}

func (s *stubUserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) Update(ctx context.Context, actor domain.Principal, id int64, fields domain.Fields) (*domain.User, error) {
	return s.updateFn(ctx, actor, id, fields)
}

func (s *stubUserService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

type stubUploadService struct {
	storeFn   func(ctx context.Context, in ports.FileInput) (*domain.UploadedFile, error)
	openFn    func(ctx context.Context, category domain.FileCategory, name string) (ports.StoredFile, error)
	calls     int
	discarded []*domain.UploadedFile
}

func (s *stubUploadService) Store(ctx context.Context, in ports.FileInput) (*domain.UploadedFile, error) {
	s.calls++
	return s.storeFn(ctx, in)
}

func (s *stubUploadService) Open(ctx context.Context, category domain.FileCategory, name string) (ports.StoredFile, error) {
	if s.openFn == nil {
		return nil, domain.ErrNotFound
	}
	return s.openFn(ctx, category, name)
}

func (s *stubUploadService) Discard(_ context.Context, file *domain.UploadedFile) error {
	s.discarded = append(s.discarded, file)
	return nil
}

type stubResourceService[T any] struct {
	items   []T
	created domain.Fields
	updated domain.Fields
	err     error
}

func (s *stubResourceService[T]) List(context.Context) ([]T, error) { return s.items, s.err }

func (s *stubResourceService[T]) Get(_ context.Context, id int64) (*T, error) {
	if s.err != nil {
		return nil, s.err
	}
	if id < 1 || int(id) > len(s.items) {
		return nil, domain.ErrNotFound
	}
	return &s.items[id-1], nil
}

func (s *stubResourceService[T]) Create(_ context.Context, f domain.Fields) (*T, error) {
	s.created = f
	var zero T
	return &zero, s.err
}

func (s *stubResourceService[T]) Update(_ context.Context, _ int64, f domain.Fields) (*T, error) {
	s.updated = f
	var zero T
	return &zero, s.err
}

func (s *stubResourceService[T]) Delete(context.Context, int64) error { return s.err }

type stubReviewService struct {
	views   []domain.ReviewView
	review  *domain.Review
	actor   domain.Principal
	created domain.Fields
	err     error
}

func (s *stubReviewService) List(context.Context) ([]domain.ReviewView, error) { return s.views, s.err }

func (s *stubReviewService) Get(context.Context, int64) (*domain.Review, error) { return s.review, s.err }

func (s *stubReviewService) Create(_ context.Context, actor domain.Principal, f domain.Fields) (*domain.Review, error) {
	s.actor, s.created = actor, f
	return s.review, s.err
}

func (s *stubReviewService) Update(_ context.Context, actor domain.Principal, _ int64, f domain.Fields) (*domain.Review, error) {
	s.actor, s.created = actor, f
	return s.review, s.err
}

func (s *stubReviewService) Delete(_ context.Context, actor domain.Principal, _ int64) error {
	s.actor = actor
	return s.err
}

// newContext builds an echo context for req, optionally carrying a validated
// payload and a principal as the middleware chain would.
func newContext(t *testing.T, req *http.Request, payload validation.Payload, principal *domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	ctx := req.Context()
	if payload != nil {
		ctx = validation.WithPayload(ctx, payload)
	}
	if principal != nil {
		ctx = domain.WithPrincipal(ctx, *principal)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req.WithContext(ctx), rec), rec
}

// multipartBody builds a multipart form with the given values and one file.
func multipartBody(t *testing.T, values map[string]string, field, filename, mediaType string, data []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range values {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if field != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
		h.Set("Content-Type", mediaType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = part.Write(data)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}
