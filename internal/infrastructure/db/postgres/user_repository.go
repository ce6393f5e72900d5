package postgres

import (
	"context"

	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

const userColumns = "id, full_name, login, password, image, role, created_at, updated_at"

// UserRepository implements ports.UserRepository on the users table.
type UserRepository struct {
	*Table[domain.User]
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{
		Table: NewTable[domain.User](db, TableConfig{
			Name:     "users",
			Columns:  userColumns,
			Conflict: domain.ErrUserExists,
		}),
		db: db,
	}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	role := u.Role
	if role == "" {
		role = domain.RoleUser
	}
	fields := domain.Fields{
		"full_name": u.FullName,
		"login":     u.Login,
		"password":  u.PasswordHash,
		"role":      string(role),
	}
	if u.Image != nil {
		fields["image"] = *u.Image
	}
	return r.Table.Create(ctx, fields)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.Table.Get(ctx, id)
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.queryOne(ctx, "SELECT "+userColumns+" FROM users WHERE login = $1", login)
}

func (r *UserRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE login = $1)", login).Scan(&exists)
	return exists, translate(err, domain.ErrUserExists)
}

// List returns the accounts whose login contains search, ordered by id.
func (r *UserRepository) List(ctx context.Context, search string) ([]domain.User, error) {
	if search == "" {
		return r.Table.List(ctx)
	}
	return r.query(ctx,
		"SELECT "+userColumns+" FROM users WHERE login ILIKE $1 ORDER BY id",
		"%"+escapeLike(search)+"%")
}

func (r *UserRepository) HasAdmin(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE role = $1)", string(domain.RoleAdmin)).Scan(&exists)
	return exists, translate(err, domain.ErrConflict)
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '%', '_':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
