package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/service"
)

func newTokens(secret string) *service.TokenService {
	return service.NewTokenService(secret, time.Hour, 24*time.Hour)
}

func issue(t *testing.T, tokens *service.TokenService, p domain.Principal) (access, refresh string) {
	t.Helper()
	pair, err := tokens.IssuePair(p)
	if err != nil {
		t.Fatalf("issue tokens: %v", err)
	}
	return pair.AccessToken, pair.RefreshToken
}

// run executes mw around a handler that records whether it was reached and
// renders any returned error through echo's default error handler.
func run(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, bool, domain.Principal) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var (
		called bool
		seen   domain.Principal
	)
	h := mw(func(c echo.Context) error {
		called = true
		seen, _ = domain.PrincipalFrom(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called, seen
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := newTokens("secret")
	access, _ := issue(t, tokens, domain.Principal{ID: 7, Role: domain.RoleAdmin})

	rec, called, p := run(t, Auth(tokens), "Bearer "+access)
	if !called {
		t.Fatal("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if p.ID != 7 || p.Role != domain.RoleAdmin {
		t.Fatalf("principal not attached: %+v", p)
	}
}

func TestAuthMiddleware_MissingCredentials(t *testing.T) {
	for _, header := range []string{"", "Bearer", "Bearer   ", "Token abc", "abc"} {
		rec, called, _ := run(t, Auth(newTokens("secret")), header)
		if called {
			t.Errorf("header %q: next must not be called", header)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	other := newTokens("other-secret")
	forged, _ := issue(t, other, domain.Principal{ID: 1, Role: domain.RoleAdmin})

	for _, tok := range []string{"not-a-jwt", forged} {
		rec, called, _ := run(t, Auth(newTokens("secret")), "Bearer "+tok)
		if called {
			t.Error("next must not be called")
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	}
}

func TestAuthMiddleware_RefreshTokenRejected(t *testing.T) {
	tokens := newTokens("secret")
	_, refresh := issue(t, tokens, domain.Principal{ID: 1, Role: domain.RoleUser})

	rec, called, _ := run(t, Auth(tokens), "Bearer "+refresh)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh token must yield 401, got %d called=%v", rec.Code, called)
	}
}

func TestAuthMiddleware_MissingSecret(t *testing.T) {
	issued, _ := issue(t, newTokens("secret"), domain.Principal{ID: 1, Role: domain.RoleUser})

	rec, called, _ := run(t, Auth(newTokens("")), "Bearer "+issued)
	if called {
		t.Fatal("next must not be called")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ErrorCarriesCause(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := Auth(newTokens("secret"))(func(echo.Context) error { return nil })(c)
	if !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials in chain, got %v", err)
	}
}

func TestAuthenticate_Composition(t *testing.T) {
	tokens := newTokens("secret")
	userTok, _ := issue(t, tokens, domain.Principal{ID: 2, Role: domain.RoleUser})
	adminTok, _ := issue(t, tokens, domain.Principal{ID: 1, Role: domain.RoleAdmin})

	cases := []struct {
		name   string
		mw     echo.MiddlewareFunc
		header string
		code   int
		called bool
	}{
		{"no header", Authenticate(tokens, domain.RoleAdmin), "", http.StatusUnauthorized, false},
		{"user on admin route", Authenticate(tokens, domain.RoleAdmin), "Bearer " + userTok, http.StatusForbidden, false},
		{"admin on admin route", Authenticate(tokens, domain.RoleAdmin), "Bearer " + adminTok, http.StatusOK, true},
		{"user on open route", Authenticate(tokens), "Bearer " + userTok, http.StatusOK, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, called, _ := run(t, tc.mw, tc.header)
			if rec.Code != tc.code || called != tc.called {
				t.Fatalf("got code=%d called=%v, want code=%d called=%v", rec.Code, called, tc.code, tc.called)
			}
		})
	}
}
