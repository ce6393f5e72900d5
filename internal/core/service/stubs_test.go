package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

// Cheap parameters keep the hashing tests fast.
var testArgon = ArgonParams{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Login == user.Login {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	stored.CreatedAt = time.Now().UTC()
	r.byID[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByLogin(_ context.Context, login string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Login == login {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	_, err := r.FindByLogin(ctx, login)
	return err == nil, nil
}

func (r *stubUserRepo) List(_ context.Context, search string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.byID {
		if strings.Contains(u.Login, search) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id int64, fields domain.Fields) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for col, v := range fields {
		switch col {
		case "full_name":
			u.FullName = v.(string)
		case "login":
			u.Login = v.(string)
		case "password":
			u.PasswordHash = v.(string)
		case "image":
			s := v.(string)
			u.Image = &s
		case "role":
			u.Role = domain.Role(v.(string))
		}
	}
	now := time.Now().UTC()
	u.UpdatedAt = &now
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubUserRepo) HasAdmin(_ context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Role == domain.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

// ---------------------------------------------------------------------------
// Login throttle
// ---------------------------------------------------------------------------

type stubThrottle struct {
	max      int
	failures map[string]int
	resets   int
}

func newStubThrottle(max int) *stubThrottle {
	return &stubThrottle{max: max, failures: make(map[string]int)}
}

func (t *stubThrottle) Allowed(_ context.Context, login string) (bool, error) {
	return t.failures[login] < t.max, nil
}

func (t *stubThrottle) Fail(_ context.Context, login string) error {
	t.failures[login]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, login string) error {
	delete(t.failures, login)
	t.resets++
	return nil
}

// ---------------------------------------------------------------------------
// File store
// ---------------------------------------------------------------------------

type stubFileStore struct {
	saved    []string
	removed  []string
	category domain.FileCategory
	data     string
}

func (s *stubFileStore) Save(_ context.Context, category domain.FileCategory, originalName string, r io.Reader, _ int64) (*domain.UploadedFile, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	name := domain.StoredName(category, 1700000000000, originalName)
	s.saved = append(s.saved, name)
	s.category = category
	s.data = string(b)
	return &domain.UploadedFile{
		Category: category,
		Filename: name,
		Path:     string(category) + "/" + name,
		Size:     int64(len(b)),
	}, nil
}

func (s *stubFileStore) Open(context.Context, domain.FileCategory, string) (ports.StoredFile, error) {
	return nil, domain.ErrNotFound
}

func (s *stubFileStore) Remove(_ context.Context, category domain.FileCategory, name string) error {
	s.removed = append(s.removed, string(category)+"/"+name)
	return nil
}
