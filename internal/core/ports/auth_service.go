package ports

import (
	"context"

	"github.com/dars410/catalog-api/internal/core/domain"
)

// RegisterInput carries the fields accepted on sign-up.
type RegisterInput struct {
	FullName string
	Login    string
	Password string
	Image    *string
}

// TokenPair is returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenVerifier authenticates bearer tokens presented to protected routes.
type TokenVerifier interface {
	VerifyAccess(token string) (domain.Principal, error)
}

// AuthService implements sign-up, login and token refresh.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, login, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

// UserService implements account management.
type UserService interface {
	List(ctx context.Context, search string) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, actor domain.Principal, id int64, fields domain.Fields) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// LoginThrottle limits repeated failed logins per account.
type LoginThrottle interface {
	Allowed(ctx context.Context, login string) (bool, error)
	Fail(ctx context.Context, login string) error
	Reset(ctx context.Context, login string) error
}
