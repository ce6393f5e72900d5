package ports

import (
	"context"

	"github.com/dars410/catalog-api/internal/core/domain"
)

// ResourceService defines the CRUD use cases of a catalog resource.
type ResourceService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, fields domain.Fields) (*T, error)
	// Update applies fields to the record; explicit nulls leave columns untouched.
	Update(ctx context.Context, id int64, fields domain.Fields) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// ReviewService defines review use cases. Mutations are restricted to the
// review's author or an admin.
type ReviewService interface {
	List(ctx context.Context) ([]domain.ReviewView, error)
	Get(ctx context.Context, id int64) (*domain.Review, error)
	Create(ctx context.Context, actor domain.Principal, fields domain.Fields) (*domain.Review, error)
	Update(ctx context.Context, actor domain.Principal, id int64, fields domain.Fields) (*domain.Review, error)
	Delete(ctx context.Context, actor domain.Principal, id int64) error
}
