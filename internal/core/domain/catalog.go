package domain

import "time"

// Author is shared by courses and books.
type Author struct {
	ID         int64      `json:"id"                   db:"id"`
	FirstName  string     `json:"firstName"            db:"first_name"`
	LastName   string     `json:"lastName"             db:"last_name"`
	MiddleName *string    `json:"middleName,omitempty" db:"middle_name"`
	CreatedAt  time.Time  `json:"createdAt"            db:"created_at"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"  db:"updated_at"`
}

// Category groups courses and books by subject.
type Category struct {
	ID        int64      `json:"id"                  db:"id"`
	Title     string     `json:"title"               db:"title"`
	CreatedAt time.Time  `json:"createdAt"           db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// Level is a difficulty tier (beginner, intermediate, ...).
type Level struct {
	ID        int64      `json:"id"                  db:"id"`
	Title     string     `json:"title"               db:"title"`
	CreatedAt time.Time  `json:"createdAt"           db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// Section is a top-level course grouping.
type Section struct {
	ID        int64      `json:"id"                  db:"id"`
	Title     string     `json:"title"               db:"title"`
	CreatedAt time.Time  `json:"createdAt"           db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// Language is the language a course or book is taught/written in.
type Language struct {
	ID        int64      `json:"id"                  db:"id"`
	Title     string     `json:"title"               db:"title"`
	Code      string     `json:"code"                db:"code"`
	CreatedAt time.Time  `json:"createdAt"           db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// Course is a purchasable video course.
type Course struct {
	ID            int64      `json:"id"                      db:"id"`
	Title         string     `json:"title"                   db:"title"`
	ImageURL      string     `json:"imageUrl"                db:"image_url"`
	DiscountPrice *int64     `json:"discountPrice,omitempty" db:"discount_price"`
	Price         int64      `json:"price"                   db:"price"`
	Views         int64      `json:"views"                   db:"views"`
	LikesCount    int64      `json:"likesCount"              db:"likes_count"`
	AuthorID      int64      `json:"authorId"                db:"author_id"`
	SectionID     int64      `json:"sectionId"               db:"section_id"`
	LevelID       int64      `json:"levelId"                 db:"level_id"`
	CategoryID    int64      `json:"categoryId"              db:"category_id"`
	LanguageID    int64      `json:"languagesId"             db:"language_id"`
	CreatedAt     time.Time  `json:"createdAt"               db:"created_at"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"     db:"updated_at"`
}

// Book is a library item. Only the title is mandatory.
type Book struct {
	ID            int64      `json:"id"                      db:"id"`
	Title         string     `json:"title"                   db:"title"`
	ImageURL      *string    `json:"imageUrl,omitempty"      db:"image_url"`
	DiscountPrice *int64     `json:"discountPrice,omitempty" db:"discount_price"`
	Price         int64      `json:"price"                   db:"price"`
	Views         int64      `json:"views"                   db:"views"`
	LikesCount    int64      `json:"likesCount"              db:"likes_count"`
	AuthorID      *int64     `json:"authorId,omitempty"      db:"author_id"`
	LevelID       *int64     `json:"levelId,omitempty"       db:"level_id"`
	CategoryID    *int64     `json:"categoryId,omitempty"    db:"category_id"`
	LanguageID    *int64     `json:"languagesId,omitempty"   db:"language_id"`
	CreatedAt     time.Time  `json:"createdAt"               db:"created_at"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"     db:"updated_at"`
}

// News is a published announcement.
type News struct {
	ID          int64      `json:"id"                  db:"id"`
	Title       string     `json:"title"               db:"title"`
	Description string     `json:"description"         db:"description"`
	Date        string     `json:"date"                db:"date"`
	NewsImgURL  string     `json:"newsImgUrl"          db:"news_img_url"`
	CreatedAt   time.Time  `json:"createdAt"           db:"created_at"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}
