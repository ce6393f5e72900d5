package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

// AuthService implements sign-up, login and refresh.
type AuthService struct {
	users    ports.UserRepository
	hasher   *PasswordHasher
	tokens   *TokenService
	throttle ports.LoginThrottle // optional
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	hasher *PasswordHasher,
	tokens *TokenService,
	throttle ports.LoginThrottle,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, throttle: throttle, log: log}
}

// Register creates a plain user account. The role is always RoleUser.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	exists, err := s.users.ExistsByLogin(ctx, in.Login)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		FullName:     in.FullName,
		Login:        in.Login,
		PasswordHash: hash,
		Image:        in.Image,
		Role:         domain.RoleUser,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Int64("user_id", created.ID).Str("login", created.Login).Msg("user registered")
	return created, nil
}

// Login verifies the credentials and issues a token pair. An unknown login
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, login, password string) (*ports.TokenPair, error) {
	if s.throttle != nil {
		allowed, err := s.throttle.Allowed(ctx, login)
		if err != nil {
			s.log.Warn().Err(err).Str("login", login).Msg("login throttle check failed, continuing")
		} else if !allowed {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByLogin(ctx, login)
	if errors.Is(err, domain.ErrNotFound) {
		s.recordFailure(ctx, login)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if errors.Is(err, domain.ErrServerMisconfigured) {
		return nil, err
	}
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", user.ID).Msg("stored password hash is unreadable")
		return nil, domain.ErrInvalidCredentials
	}
	if !ok {
		s.recordFailure(ctx, login)
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, login); err != nil {
			s.log.Warn().Err(err).Str("login", login).Msg("failed to reset login throttle")
		}
	}

	pair, err := s.tokens.IssuePair(user.Principal())
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("user logged in")
	return pair, nil
}

// Refresh exchanges a refresh token for a new pair. The account is reloaded
// so that role changes and deletions take effect.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	claims, err := s.tokens.VerifyKind(refreshToken, KindRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	return s.tokens.IssuePair(user.Principal())
}

func (s *AuthService) recordFailure(ctx context.Context, login string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Fail(ctx, login); err != nil {
		s.log.Warn().Err(err).Str("login", login).Msg("failed to record login failure")
	}
}
