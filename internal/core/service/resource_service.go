package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

// ResourceService is the CRUD use case shared by every catalog resource.
type ResourceService[T any] struct {
	name string
	repo ports.ResourceRepository[T]
	log  zerolog.Logger
}

func NewResourceService[T any](name string, repo ports.ResourceRepository[T], log zerolog.Logger) *ResourceService[T] {
	return &ResourceService[T]{
		name: name,
		repo: repo,
		log:  log.With().Str("resource", name).Logger(),
	}
}

func (s *ResourceService[T]) List(ctx context.Context) ([]T, error) {
	return s.repo.List(ctx)
}

func (s *ResourceService[T]) Get(ctx context.Context, id int64) (*T, error) {
	return s.repo.Get(ctx, id)
}

func (s *ResourceService[T]) Create(ctx context.Context, fields domain.Fields) (*T, error) {
	created, err := s.repo.Create(ctx, fields.WithoutNulls())
	if err != nil {
		return nil, err
	}
	s.log.Info().Strs("columns", fields.Columns()).Msg("record created")
	return created, nil
}

// Update writes only the non-null fields. An update with nothing left to
// write returns the current record.
func (s *ResourceService[T]) Update(ctx context.Context, id int64, fields domain.Fields) (*T, error) {
	f := fields.WithoutNulls()
	if len(f) == 0 {
		return s.repo.Get(ctx, id)
	}

	updated, err := s.repo.Update(ctx, id, f)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("id", id).Strs("columns", f.Columns()).Msg("record updated")
	return updated, nil
}

func (s *ResourceService[T]) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("id", id).Msg("record deleted")
	return nil
}
