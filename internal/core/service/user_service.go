package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

// UserService implements account management.
type UserService struct {
	users  ports.UserRepository
	hasher *PasswordHasher
	log    zerolog.Logger
}

func NewUserService(users ports.UserRepository, hasher *PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, log: log}
}

func (s *UserService) List(ctx context.Context, search string) ([]domain.User, error) {
	return s.users.List(ctx, search)
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// Update applies a partial change to an account. Users may edit only
// themselves and only admins may change a role. A new password is hashed
// before it is stored.
func (s *UserService) Update(ctx context.Context, actor domain.Principal, id int64, fields domain.Fields) (*domain.User, error) {
	if !actor.CanModify(id) {
		return nil, domain.ErrForbidden
	}

	f := fields.WithoutNulls()
	if f.Has("role") && actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if len(f) == 0 {
		return s.users.FindByID(ctx, id)
	}

	if login, ok := f["login"].(string); ok {
		other, err := s.users.FindByLogin(ctx, login)
		switch {
		case err == nil && other.ID != id:
			return nil, domain.ErrUserExists
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("update user: %w", err)
		}
	}

	if pw, ok := f["password"].(string); ok {
		hash, err := s.hasher.Hash(pw)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		f["password"] = hash
	}

	updated, err := s.users.Update(ctx, id, f)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", id).Int64("actor_id", actor.ID).Strs("columns", f.Columns()).Msg("user updated")
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}
