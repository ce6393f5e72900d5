package ports

import (
	"context"

	"github.com/dars410/catalog-api/internal/core/domain"
)

// ResourceRepository is the uniform persistence contract shared by every
// catalog table. Fields are keyed by storage column.
type ResourceRepository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, fields domain.Fields) (*T, error)
	Update(ctx context.Context, id int64, fields domain.Fields) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// ReviewRepository adds the joined listing reviews are served with.
type ReviewRepository interface {
	ResourceRepository[domain.Review]
	ListDetailed(ctx context.Context) ([]domain.ReviewView, error)
}
