package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

// ReviewRepository implements ports.ReviewRepository for one review table.
type ReviewRepository struct {
	*Table[domain.Review]
	db       Querier
	detailed string
}

// NewCourseReviewRepository serves course_reviews.
func NewCourseReviewRepository(db Querier) *ReviewRepository {
	return newReviewRepository(db, "course_reviews", "course_id", "courses")
}

// NewBookReviewRepository serves book_reviews.
func NewBookReviewRepository(db Querier) *ReviewRepository {
	return newReviewRepository(db, "book_reviews", "book_id", "books")
}

func newReviewRepository(db Querier, table, targetColumn, targetTable string) *ReviewRepository {
	return &ReviewRepository{
		Table: NewTable[domain.Review](db, TableConfig{
			Name:    table,
			Columns: reviewColumns(targetColumn),
			Rename:  map[string]string{"target_id": targetColumn},
		}),
		db:       db,
		detailed: detailedReviewQuery(table, targetColumn, targetTable),
	}
}

var _ ports.ReviewRepository = (*ReviewRepository)(nil)

func reviewColumns(targetColumn string) string {
	return fmt.Sprintf("id, user_id, %s AS target_id, rating, comment, created_at, updated_at", targetColumn)
}

func detailedReviewQuery(table, targetColumn, targetTable string) string {
	return fmt.Sprintf(`SELECT r.id, r.user_id, r.%[2]s, r.rating, r.comment, r.created_at, r.updated_at,
       u.id, u.full_name, u.login, u.image,
       t.id, t.title
FROM %[1]s r
JOIN users u ON u.id = r.user_id
JOIN %[3]s t ON t.id = r.%[2]s
ORDER BY r.id`, table, targetColumn, targetTable)
}

// ListDetailed returns every review with its author and reviewed item.
func (r *ReviewRepository) ListDetailed(ctx context.Context) ([]domain.ReviewView, error) {
	rows, err := r.db.Query(ctx, r.detailed)
	if err != nil {
		return nil, translate(err, domain.ErrConflict)
	}
	views, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ReviewView, error) {
		var v domain.ReviewView
		err := row.Scan(
			&v.ID, &v.UserID, &v.TargetID, &v.Rating, &v.Comment, &v.CreatedAt, &v.UpdatedAt,
			&v.User.ID, &v.User.FullName, &v.User.Login, &v.User.Image,
			&v.Item.ID, &v.Item.Title,
		)
		return v, err
	})
	if err != nil {
		return nil, translate(err, domain.ErrConflict)
	}
	return views, nil
}
