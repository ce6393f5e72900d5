package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

// ReviewService handles reviews of one target kind (courses or books).
type ReviewService struct {
	target domain.ReviewTarget
	repo   ports.ReviewRepository
	log    zerolog.Logger
}

func NewReviewService(target domain.ReviewTarget, repo ports.ReviewRepository, log zerolog.Logger) *ReviewService {
	return &ReviewService{
		target: target,
		repo:   repo,
		log:    log.With().Str("target", string(target)).Logger(),
	}
}

func (s *ReviewService) List(ctx context.Context) ([]domain.ReviewView, error) {
	return s.repo.ListDetailed(ctx)
}

func (s *ReviewService) Get(ctx context.Context, id int64) (*domain.Review, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a review authored by actor. Any client supplied author is
// overwritten.
func (s *ReviewService) Create(ctx context.Context, actor domain.Principal, fields domain.Fields) (*domain.Review, error) {
	f := fields.WithoutNulls()
	f["user_id"] = actor.ID

	created, err := s.repo.Create(ctx, f)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("review_id", created.ID).Int64("user_id", actor.ID).Msg("review created")
	return created, nil
}

func (s *ReviewService) Update(ctx context.Context, actor domain.Principal, id int64, fields domain.Fields) (*domain.Review, error) {
	current, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	f := fields.WithoutNulls()
	delete(f, "user_id")
	if len(f) == 0 {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, id, f)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("review_id", id).Int64("actor_id", actor.ID).Msg("review updated")
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor domain.Principal, id int64) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("review_id", id).Int64("actor_id", actor.ID).Msg("review deleted")
	return nil
}

// owned loads review id and checks that actor may change it.
func (s *ReviewService) owned(ctx context.Context, actor domain.Principal, id int64) (*domain.Review, error) {
	review, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(review.UserID) {
		return nil, domain.ErrForbidden
	}
	return review, nil
}
