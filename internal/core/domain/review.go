package domain

import "time"

// ReviewTarget names the kind of item a review is attached to.
type ReviewTarget string

const (
	TargetCourse ReviewTarget = "course"
	TargetBook   ReviewTarget = "book"
)

// Review is a user's rating of a course or a book.
type Review struct {
	ID        int64      `json:"id"                  db:"id"`
	UserID    int64      `json:"userId"              db:"user_id"`
	TargetID  int64      `json:"-"                   db:"target_id"`
	Rating    int64      `json:"rating"              db:"rating"`
	Comment   *string    `json:"comment"             db:"comment"`
	CreatedAt time.Time  `json:"createdAt"           db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// ItemSummary is the public projection of a reviewed course or book.
type ItemSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// ReviewView is a review joined with its author and the reviewed item.
type ReviewView struct {
	Review
	User UserSummary `json:"user"`
	Item ItemSummary `json:"item"`
}
