package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dars410/catalog-api/internal/core/domain"
)

const (
	uniqueViolation           = "23505"
	foreignKeyViolation       = "23503"
	stringDataRightTruncation = "22001"
)

// translate maps driver errors onto domain errors. conflict is returned for
// unique violations, so callers can report e.g. ErrUserExists.
func translate(err, conflict error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return conflict
		case foreignKeyViolation:
			return domain.ErrInvalidReference
		case stringDataRightTruncation:
			return fmt.Errorf("%w: %s", domain.ErrValueTooLong, pgErr.ColumnName)
		}
	}
	return err
}

// translateDelete is translate for deletes, where a foreign key violation
// means the row is still referenced rather than pointing nowhere.
func translateDelete(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return domain.ErrConflict
	}
	return translate(err, domain.ErrConflict)
}
