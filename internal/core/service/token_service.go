package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

const (
	DefaultAccessTTL  = 3 * time.Hour
	DefaultRefreshTTL = 30 * 24 * time.Hour
)

// TokenKind distinguishes short-lived access tokens from refresh tokens.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims is the signed token body.
type Claims struct {
	UserID int64       `json:"id"`
	Role   domain.Role `json:"role"`
	Kind   TokenKind   `json:"typ"`
	jwt.RegisteredClaims
}

// Principal returns the identity carried by c.
func (c *Claims) Principal() domain.Principal {
	return domain.Principal{ID: c.UserID, Role: c.Role}
}

// TokenService issues and verifies HS256 bearer tokens. It keeps no state
// besides the key, so tokens stay valid until they expire.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService builds a TokenService. An empty secret is accepted: every
// issue or verify call then fails with domain.ErrServerMisconfigured.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Issue signs p as a token of the given kind expiring ttl from now.
func (s *TokenService) Issue(p domain.Principal, kind TokenKind, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", domain.ErrServerMisconfigured
	}

	now := s.now()
	claims := Claims{
		UserID: p.ID,
		Role:   p.Role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// IssuePair returns a fresh access/refresh pair for p.
func (s *TokenService) IssuePair(p domain.Principal) (*ports.TokenPair, error) {
	access, err := s.Issue(p, KindAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Issue(p, KindRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify checks the signature, algorithm and expiry of token and returns its
// claims. Every failure wraps domain.ErrInvalidCredentials, except a missing
// key which yields domain.ErrServerMisconfigured.
func (s *TokenService) Verify(token string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, domain.ErrServerMisconfigured
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	tkn, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
	}
	if !tkn.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	if claims.UserID <= 0 || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: malformed claims", domain.ErrInvalidCredentials)
	}
	return claims, nil
}

// VerifyKind is Verify restricted to tokens of the given kind.
func (s *TokenService) VerifyKind(token string, kind TokenKind) (*Claims, error) {
	claims, err := s.Verify(token)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: expected %s token", domain.ErrInvalidCredentials, kind)
	}
	return claims, nil
}

// VerifyAccess satisfies ports.TokenVerifier.
func (s *TokenService) VerifyAccess(token string) (domain.Principal, error) {
	claims, err := s.VerifyKind(token, KindAccess)
	if err != nil {
		return domain.Principal{}, err
	}
	return claims.Principal(), nil
}

// IsExpired reports whether err came from an expired token.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
