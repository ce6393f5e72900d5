package postgres

import (
	"context"
	"fmt"
)

// ddl creates the catalog schema. Every statement is idempotent so Migrate
// can run on each start.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL PRIMARY KEY,
		full_name  VARCHAR(64)  NOT NULL,
		login      VARCHAR(64)  NOT NULL UNIQUE,
		password   TEXT         NOT NULL,
		image      VARCHAR(128),
		role       VARCHAR(16)  NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
		created_at TIMESTAMPTZ  NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS authors (
		id          BIGSERIAL PRIMARY KEY,
		first_name  VARCHAR(32) NOT NULL,
		last_name   VARCHAR(32) NOT NULL,
		middle_name VARCHAR(32),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ
	)`,
	titleTable("categories"),
	titleTable("levels"),
	titleTable("sections"),
	`CREATE TABLE IF NOT EXISTS languages (
		id         BIGSERIAL PRIMARY KEY,
		title      VARCHAR(32) NOT NULL UNIQUE,
		code       VARCHAR(16) NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id             BIGSERIAL PRIMARY KEY,
		title          VARCHAR(256) NOT NULL,
		image_url      VARCHAR(128) NOT NULL,
		discount_price BIGINT,
		price          BIGINT       NOT NULL DEFAULT 0,
		views          BIGINT       NOT NULL DEFAULT 0,
		likes_count    BIGINT       NOT NULL DEFAULT 0,
		author_id      BIGINT       NOT NULL REFERENCES authors (id),
		section_id     BIGINT       NOT NULL REFERENCES sections (id),
		level_id       BIGINT       NOT NULL REFERENCES levels (id),
		category_id    BIGINT       NOT NULL REFERENCES categories (id),
		language_id    BIGINT       NOT NULL REFERENCES languages (id),
		created_at     TIMESTAMPTZ  NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id             BIGSERIAL PRIMARY KEY,
		title          VARCHAR(256) NOT NULL,
		image_url      VARCHAR(128),
		discount_price BIGINT,
		price          BIGINT       NOT NULL DEFAULT 0,
		views          BIGINT       NOT NULL DEFAULT 0,
		likes_count    BIGINT       NOT NULL DEFAULT 0,
		author_id      BIGINT       REFERENCES authors (id),
		level_id       BIGINT       REFERENCES levels (id),
		category_id    BIGINT       REFERENCES categories (id),
		language_id    BIGINT       REFERENCES languages (id),
		created_at     TIMESTAMPTZ  NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ
	)`,
	reviewTable("course_reviews", "course_id", "courses"),
	reviewTable("book_reviews", "book_id", "books"),
	`CREATE TABLE IF NOT EXISTS news (
		id           BIGSERIAL PRIMARY KEY,
		title        VARCHAR(256)  NOT NULL,
		description  VARCHAR(4096) NOT NULL,
		date         VARCHAR(64)   NOT NULL,
		news_img_url VARCHAR(128)  NOT NULL,
		created_at   TIMESTAMPTZ   NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_course_reviews_course ON course_reviews (course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_book_reviews_book ON book_reviews (book_id)`,
}

func titleTable(name string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id         BIGSERIAL PRIMARY KEY,
		title      VARCHAR(32) NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ
	)`, name)
}

// reviewTable builds a review table. Reviews go away with their author or
// their target.
func reviewTable(name, targetColumn, targetTable string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT   NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		%s         BIGINT   NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
		rating     INTEGER  NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment    VARCHAR(1024),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ
	)`, name, targetColumn, targetTable)
}

// Migrate applies the schema.
func Migrate(ctx context.Context, db Querier) error {
	for _, stmt := range ddl {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
