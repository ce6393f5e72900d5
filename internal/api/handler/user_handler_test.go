package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dars410/catalog-api/internal/api/validation"
	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

func TestUserHandler_Register_Success(t *testing.T) {
	auth := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Login != "alice" || in.Password != "s3cret" || in.FullName != "Alice" || in.Image != nil {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: 1, FullName: in.FullName, Login: in.Login, PasswordHash: "$argon2id$...", Role: domain.RoleUser}, nil
		},
	}
	h := NewUserHandler(auth, nil, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := newContext(t, req, validation.Payload{"fullName": "Alice", "login": "alice", "password": "s3cret"}, nil)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["login"] != "alice" || resp["role"] != "user" {
		t.Fatalf("unexpected body: %v", resp)
	}
	if _, ok := resp["password"]; ok {
		t.Fatal("password must never be returned")
	}
	if strings.Contains(rec.Body.String(), "argon2id") {
		t.Fatal("password hash leaked into the response")
	}
}

func TestUserHandler_Register_WithImage(t *testing.T) {
	uploads := &stubUploadService{
		storeFn: func(_ context.Context, in ports.FileInput) (*domain.UploadedFile, error) {
			if in.MediaType != "image/png" || in.OriginalName != "me.png" {
				t.Fatalf("unexpected file input: %+v", in)
			}
			rc, _ := in.Open()
			data, _ := io.ReadAll(rc)
			_ = rc.Close()
			if string(data) != "png" {
				t.Fatalf("unexpected file contents %q", data)
			}
			return &domain.UploadedFile{Category: domain.CategoryImage, Path: "/uploads/image/image_1.png", Size: 3}, nil
		},
	}
	auth := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Image == nil || *in.Image != "/uploads/image/image_1.png" {
				t.Fatalf("image path not forwarded: %+v", in.Image)
			}
			return &domain.User{ID: 2, Login: in.Login, Image: in.Image, Role: domain.RoleUser}, nil
		},
	}
	h := NewUserHandler(auth, nil, uploads, zerolog.Nop())

	body, contentType := multipartBody(t, map[string]string{"login": "bob"}, "image", "me.png", "image/png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/users", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, rec := newContext(t, req, validation.Payload{"fullName": "Bob", "login": "bob", "password": "pw"}, nil)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated || uploads.calls != 1 {
		t.Fatalf("expected 201 with one upload, got %d / %d", rec.Code, uploads.calls)
	}
}

func TestUserHandler_Register_RejectedImageSkipsSignup(t *testing.T) {
	uploads := &stubUploadService{
		storeFn: func(context.Context, ports.FileInput) (*domain.UploadedFile, error) {
			return nil, domain.ErrUnsupportedMediaType
		},
	}
	auth := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatal("sign-up must not run when the image is rejected")
			return nil, nil
		},
	}
	h := NewUserHandler(auth, nil, uploads, zerolog.Nop())

	body, contentType := multipartBody(t, nil, "image", "notes.txt", "text/plain", []byte("hi"))
	req := httptest.NewRequest(http.MethodPost, "/users", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, _ := newContext(t, req, validation.Payload{"fullName": "C", "login": "carol", "password": "pw"}, nil)

	if err := h.Register(c); !errors.Is(err, domain.ErrUnsupportedMediaType) {
		t.Fatalf("expected ErrUnsupportedMediaType, got %v", err)
	}
}

func TestUserHandler_Register_FailedSignupDiscardsImage(t *testing.T) {
	stored := &domain.UploadedFile{Category: domain.CategoryImage, Filename: "image_1.png", Path: "/uploads/image/image_1.png"}
	uploads := &stubUploadService{
		storeFn: func(context.Context, ports.FileInput) (*domain.UploadedFile, error) {
			return stored, nil
		},
	}
	auth := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewUserHandler(auth, nil, uploads, zerolog.Nop())

	body, contentType := multipartBody(t, nil, "image", "me.png", "image/png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/users", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, _ := newContext(t, req, validation.Payload{"fullName": "A", "login": "alice", "password": "pw"}, nil)

	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(uploads.discarded) != 1 || uploads.discarded[0] != stored {
		t.Fatalf("the stored avatar must be discarded, got %v", uploads.discarded)
	}
}

func TestUserHandler_Register_UserExists(t *testing.T) {
	auth := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewUserHandler(auth, nil, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	c, _ := newContext(t, req, validation.Payload{"fullName": "A", "login": "alice", "password": "pw"}, nil)

	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserHandler_Register_WithoutValidation(t *testing.T) {
	h := NewUserHandler(&stubAuthService{}, nil, nil, zerolog.Nop())
	c, _ := newContext(t, httptest.NewRequest(http.MethodPost, "/users", nil), nil, nil)
	if err := h.Register(c); err == nil {
		t.Fatal("expected an error when no payload was validated")
	}
}

func TestUserHandler_Login(t *testing.T) {
	auth := &stubAuthService{
		loginFn: func(_ context.Context, login, password string) (*ports.TokenPair, error) {
			if login == "alice" && password == "s3cret" {
				return &ports.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
			}
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewUserHandler(auth, nil, nil, zerolog.Nop())

	c, rec := newContext(t, httptest.NewRequest(http.MethodPost, "/users/login", nil),
		validation.Payload{"login": "alice", "password": "s3cret"}, nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var pair ports.TokenPair
	if err := json.Unmarshal(rec.Body.Bytes(), &pair); err != nil || pair.AccessToken != "a" || pair.RefreshToken != "r" {
		t.Fatalf("unexpected body %s: %v", rec.Body.String(), err)
	}

	c, _ = newContext(t, httptest.NewRequest(http.MethodPost, "/users/login", nil),
		validation.Payload{"login": "alice", "password": "wrong"}, nil)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserHandler_Refresh(t *testing.T) {
	auth := &stubAuthService{
		refreshFn: func(_ context.Context, token string) (*ports.TokenPair, error) {
			if token != "refresh-token" {
				t.Fatalf("unexpected token %q", token)
			}
			return &ports.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, nil
		},
	}
	h := NewUserHandler(auth, nil, nil, zerolog.Nop())

	c, rec := newContext(t, httptest.NewRequest(http.MethodPost, "/users/refresh", nil),
		validation.Payload{"refreshToken": "refresh-token"}, nil)
	if err := h.Refresh(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", rec.Code, err)
	}
}

func TestUserHandler_List(t *testing.T) {
	users := &stubUserService{
		listFn: func(_ context.Context, search string) ([]domain.User, error) {
			if search != "al" {
				t.Fatalf("unexpected search %q", search)
			}
			return []domain.User{{ID: 1, Login: "alice", PasswordHash: "secret-hash"}}, nil
		},
	}
	h := NewUserHandler(nil, users, nil, zerolog.Nop())

	c, rec := newContext(t, httptest.NewRequest(http.MethodGet, "/users?search=al", nil), nil, nil)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.Contains(rec.Body.String(), "secret-hash") || !strings.Contains(rec.Body.String(), "alice") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestUserHandler_Me(t *testing.T) {
	users := &stubUserService{
		getFn: func(_ context.Context, id int64) (*domain.User, error) {
			if id == 7 {
				return &domain.User{ID: 7, Login: "me"}, nil
			}
			return nil, domain.ErrNotFound
		},
	}
	h := NewUserHandler(nil, users, nil, zerolog.Nop())

	c, rec := newContext(t, httptest.NewRequest(http.MethodGet, "/users/me", nil), nil, &domain.Principal{ID: 7, Role: domain.RoleUser})
	if err := h.Me(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", rec.Code, err)
	}

	// A token for a deleted account is treated as invalid.
	c, _ = newContext(t, httptest.NewRequest(http.MethodGet, "/users/me", nil), nil, &domain.Principal{ID: 8, Role: domain.RoleUser})
	var he *echo.HTTPError
	if err := h.Me(c); !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}

	c, _ = newContext(t, httptest.NewRequest(http.MethodGet, "/users/me", nil), nil, nil)
	if err := h.Me(c); !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a principal, got %v", err)
	}
}

func TestUpdateUserSchema_ImageMustBeAnUpload(t *testing.T) {
	schema := UpdateUserSchema()

	if _, err := validation.Validate(schema, map[string]any{"image": "/uploads/image/image_1700000000000.png"}); err != nil {
		t.Fatalf("a stored upload path must be accepted: %v", err)
	}
	if _, err := validation.Validate(schema, map[string]any{"image": nil}); err != nil {
		t.Fatalf("an explicit null must be accepted: %v", err)
	}

	for _, image := range []string{
		"https://evil.example/avatar.png",
		"//evil.example/a.png",
		"/uploads/../../etc/passwd",
		"javascript:alert(1)",
	} {
		_, err := validation.Validate(schema, map[string]any{"image": image})
		var verr *validation.Errors
		if !errors.As(err, &verr) || len(verr.Fields) != 1 || verr.Fields[0].Field != "image" {
			t.Errorf("image %q: expected one image violation, got %v", image, err)
		}
	}
}

func TestUserHandler_Update_MapsColumns(t *testing.T) {
	actor := domain.Principal{ID: 3, Role: domain.RoleUser}
	users := &stubUserService{
		updateFn: func(_ context.Context, got domain.Principal, id int64, fields domain.Fields) (*domain.User, error) {
			if got != actor || id != 3 {
				t.Fatalf("unexpected actor/id: %+v %d", got, id)
			}
			if fields["full_name"] != "New Name" || fields.Has("fullName") {
				t.Fatalf("payload not mapped to columns: %v", fields)
			}
			if v, ok := fields["image"]; !ok || v != nil {
				t.Fatalf("explicit null must reach the service for filtering: %v", fields)
			}
			return &domain.User{ID: 3, FullName: "New Name"}, nil
		},
	}
	h := NewUserHandler(nil, users, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPatch, "/users/3", nil)
	c, rec := newContext(t, req, validation.Payload{"fullName": "New Name", "image": nil}, &actor)
	c.SetParamNames("id")
	c.SetParamValues("3")

	if err := h.Update(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", rec.Code, err)
	}
}

func TestUserHandler_Get_InvalidID(t *testing.T) {
	h := NewUserHandler(nil, &stubUserService{}, nil, zerolog.Nop())
	for _, id := range []string{"abc", "0", "-4"} {
		c, _ := newContext(t, httptest.NewRequest(http.MethodGet, "/users/"+id, nil), nil, nil)
		c.SetParamNames("id")
		c.SetParamValues(id)

		var he *echo.HTTPError
		if err := h.Get(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Errorf("id %q: expected 400, got %v", id, err)
		}
	}
}

func TestUserHandler_Delete(t *testing.T) {
	deleted := int64(0)
	users := &stubUserService{deleteFn: func(_ context.Context, id int64) error { deleted = id; return nil }}
	h := NewUserHandler(nil, users, nil, zerolog.Nop())

	c, rec := newContext(t, httptest.NewRequest(http.MethodDelete, "/users/9", nil), nil, nil)
	c.SetParamNames("id")
	c.SetParamValues("9")
	if err := h.Delete(c); err != nil || rec.Code != http.StatusNoContent || deleted != 9 {
		t.Fatalf("expected 204 deleting 9, got %d (%d): %v", rec.Code, deleted, err)
	}
}
