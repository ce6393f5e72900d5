package handler

import (
	"time"

	"github.com/dars410/catalog-api/internal/api/validation"
	"github.com/dars410/catalog-api/internal/core/domain"
)

// ReviewSchemas returns the create and update schemas for reviews whose
// target is sent under targetField (e.g. "courseId").
func ReviewSchemas(targetField string) (create, update validation.Schema) {
	create = validation.Schema{
		Name: "CreateReview",
		Fields: []validation.Field{
			{Name: targetField, Column: "target_id", Kind: validation.Int, Required: true, Rules: "gt=0"},
			{Name: "rating", Kind: validation.Int, Required: true, Rules: "min=1,max=5"},
			{Name: "comment", Kind: validation.String, Rules: "max=1024"},
		},
	}
	update = validation.Schema{
		Name: "UpdateReview",
		Fields: []validation.Field{
			{Name: "rating", Kind: validation.Int, Rules: "min=1,max=5"},
			{Name: "comment", Kind: validation.String, Rules: "max=1024"},
		},
	}
	return create, update
}

type reviewResponse struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	Rating    int64      `json:"rating"`
	Comment   *string    `json:"comment"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// reviewListItem nests the author and the reviewed item under itemKey.
type reviewListItem map[string]any

func toReviewResponse(r *domain.Review, targetField string) map[string]any {
	return map[string]any{
		"id":        r.ID,
		"userId":    r.UserID,
		targetField: r.TargetID,
		"rating":    r.Rating,
		"comment":   r.Comment,
		"createdAt": r.CreatedAt,
		"updatedAt": r.UpdatedAt,
	}
}

func toReviewListItem(v domain.ReviewView, itemKey string) reviewListItem {
	return reviewListItem{
		"id":        v.ID,
		"user":      v.User,
		itemKey:     v.Item,
		"rating":    v.Rating,
		"comment":   v.Comment,
		"createdAt": v.CreatedAt,
	}
}
