package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dars410/catalog-api/internal/core/domain"
)

// TableConfig describes how a struct maps onto one table.
type TableConfig struct {
	Name string
	// Columns is the select list; it must produce exactly the db-tagged
	// fields of the row type, e.g. "id, course_id AS target_id".
	Columns string
	// Rename maps field keys to stored column names on writes.
	Rename map[string]string
	// Conflict is returned on unique violations. Defaults to domain.ErrConflict.
	Conflict error
}

// Table implements ports.ResourceRepository[T] for one table.
type Table[T any] struct {
	db  Querier
	cfg TableConfig
}

func NewTable[T any](db Querier, cfg TableConfig) *Table[T] {
	if cfg.Conflict == nil {
		cfg.Conflict = domain.ErrConflict
	}
	return &Table[T]{db: db, cfg: cfg}
}

func (t *Table[T]) List(ctx context.Context) ([]T, error) {
	return t.query(ctx, fmt.Sprintf("SELECT %s FROM %s ORDER BY id", t.cfg.Columns, t.ident()))
}

func (t *Table[T]) Get(ctx context.Context, id int64) (*T, error) {
	return t.queryOne(ctx, fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", t.cfg.Columns, t.ident()), id)
}

func (t *Table[T]) Create(ctx context.Context, fields domain.Fields) (*T, error) {
	sql, args := buildInsert(t.ident(), t.cfg.Columns, t.rename(fields))
	return t.queryOne(ctx, sql, args...)
}

// Update writes fields and bumps updated_at. An empty fields set only bumps
// updated_at.
func (t *Table[T]) Update(ctx context.Context, id int64, fields domain.Fields) (*T, error) {
	sql, args := buildUpdate(t.ident(), t.cfg.Columns, id, t.rename(fields))
	return t.queryOne(ctx, sql, args...)
}

func (t *Table[T]) Delete(ctx context.Context, id int64) error {
	tag, err := t.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.ident()), id)
	if err != nil {
		return translateDelete(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *Table[T]) query(ctx context.Context, sql string, args ...any) ([]T, error) {
	rows, err := t.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err, t.cfg.Conflict)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, translate(err, t.cfg.Conflict)
	}
	return items, nil
}

func (t *Table[T]) queryOne(ctx context.Context, sql string, args ...any) (*T, error) {
	rows, err := t.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err, t.cfg.Conflict)
	}
	item, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, translate(err, t.cfg.Conflict)
	}
	return item, nil
}

func (t *Table[T]) ident() string {
	return pgx.Identifier{t.cfg.Name}.Sanitize()
}

func (t *Table[T]) rename(fields domain.Fields) domain.Fields {
	if len(t.cfg.Rename) == 0 {
		return fields
	}
	out := make(domain.Fields, len(fields))
	for k, v := range fields {
		if col, ok := t.cfg.Rename[k]; ok {
			k = col
		}
		out[k] = v
	}
	return out
}

// buildInsert renders INSERT ... RETURNING for fields in column order.
func buildInsert(table, returning string, fields domain.Fields) (string, []any) {
	cols := fields.Columns()
	if len(cols) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", table, returning), nil
	}

	names := make([]string, len(cols))
	params := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		names[i] = pgx.Identifier{c}.Sanitize()
		params[i] = fmt.Sprintf("$%d", i+1)
		args[i] = fields[c]
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		table, strings.Join(names, ", "), strings.Join(params, ", "), returning), args
}

// buildUpdate renders UPDATE ... SET ..., updated_at = now() WHERE id = $n.
func buildUpdate(table, returning string, id int64, fields domain.Fields) (string, []any) {
	cols := fields.Columns()
	sets := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+1)
	for _, c := range cols {
		args = append(args, fields[c])
		sets = append(sets, fmt.Sprintf("%s = $%d", pgx.Identifier{c}.Sanitize(), len(args)))
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(sets, ", "), len(args), returning), args
}
