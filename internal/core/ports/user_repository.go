package ports

import (
	"context"

	"github.com/dars410/catalog-api/internal/core/domain"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	ExistsByLogin(ctx context.Context, login string) (bool, error)
	// List returns every account whose login contains search (all when empty).
	List(ctx context.Context, search string) ([]domain.User, error)
	Update(ctx context.Context, id int64, fields domain.Fields) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	HasAdmin(ctx context.Context) (bool, error)
}
