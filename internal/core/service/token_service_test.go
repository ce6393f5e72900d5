package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dars410/catalog-api/internal/core/domain"
)

func TestTokenService_IssueVerify(t *testing.T) {
	svc := NewTokenService("secret", time.Hour, 24*time.Hour)
	p := domain.Principal{ID: 42, Role: domain.RoleAdmin}

	token, err := svc.Issue(p, KindAccess, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != 42 || claims.Role != domain.RoleAdmin || claims.Kind != KindAccess {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatal("expected iat and exp to be set")
	}
}

func TestTokenService_WrongKey(t *testing.T) {
	issuer := NewTokenService("secret-a", 0, 0)
	verifier := NewTokenService("secret-b", 0, 0)

	token, err := issuer.Issue(domain.Principal{ID: 1, Role: domain.RoleUser}, KindAccess, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("secret", 0, 0)
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	token, err := svc.Issue(domain.Principal{ID: 1, Role: domain.RoleUser}, KindAccess, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	svc.now = func() time.Time { return start.Add(30 * time.Second) }
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("token must be valid before expiry: %v", err)
	}

	svc.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = svc.Verify(token)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if !IsExpired(err) {
		t.Fatalf("expected expiry to be reported, got %v", err)
	}
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	svc := NewTokenService("secret", 0, 0)
	claims := Claims{
		UserID: 1,
		Role:   domain.RoleAdmin,
		Kind:   KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Verify(hs512); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("HS512 token must be rejected, got %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := svc.Verify(none); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unsigned token must be rejected, got %v", err)
	}
}

func TestTokenService_RequiresExpiry(t *testing.T) {
	svc := NewTokenService("secret", 0, 0)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1, Role: domain.RoleUser, Kind: KindAccess}).
		SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("token without exp must be rejected, got %v", err)
	}
}

func TestTokenService_Garbage(t *testing.T) {
	svc := NewTokenService("secret", 0, 0)
	for _, tok := range []string{"", "abc", "a.b.c"} {
		if _, err := svc.Verify(tok); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("Verify(%q): expected ErrInvalidCredentials, got %v", tok, err)
		}
	}
}

func TestTokenService_EmptySecret(t *testing.T) {
	svc := NewTokenService("", 0, 0)
	if _, err := svc.Issue(domain.Principal{ID: 1, Role: domain.RoleUser}, KindAccess, time.Hour); !errors.Is(err, domain.ErrServerMisconfigured) {
		t.Fatalf("Issue: expected ErrServerMisconfigured, got %v", err)
	}
	if _, err := svc.Verify("x.y.z"); !errors.Is(err, domain.ErrServerMisconfigured) {
		t.Fatalf("Verify: expected ErrServerMisconfigured, got %v", err)
	}
}

func TestTokenService_PairKinds(t *testing.T) {
	svc := NewTokenService("secret", time.Hour, 24*time.Hour)
	pair, err := svc.IssuePair(domain.Principal{ID: 3, Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	p, err := svc.VerifyAccess(pair.AccessToken)
	if err != nil || p.ID != 3 || p.Role != domain.RoleUser {
		t.Fatalf("access token: p=%+v err=%v", p, err)
	}
	if _, err := svc.VerifyAccess(pair.RefreshToken); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("refresh token must not authenticate requests, got %v", err)
	}
	if _, err := svc.VerifyKind(pair.RefreshToken, KindRefresh); err != nil {
		t.Fatalf("refresh token: %v", err)
	}
}
