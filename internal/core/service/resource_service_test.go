package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dars410/catalog-api/internal/core/domain"
)

// stubTable is a ResourceRepository over domain.Category.
type stubTable struct {
	rows    map[int64]*domain.Category
	nextID  int64
	updates []domain.Fields
}

func newStubTable() *stubTable {
	return &stubTable{rows: make(map[int64]*domain.Category)}
}

func (r *stubTable) List(context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(r.rows))
	for id := int64(1); id <= r.nextID; id++ {
		if c, ok := r.rows[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubTable) Get(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubTable) Create(_ context.Context, f domain.Fields) (*domain.Category, error) {
	r.nextID++
	c := &domain.Category{ID: r.nextID, Title: f["title"].(string)}
	r.rows[c.ID] = c
	clone := *c
	return &clone, nil
}

func (r *stubTable) Update(_ context.Context, id int64, f domain.Fields) (*domain.Category, error) {
	r.updates = append(r.updates, f)
	c, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if v, ok := f["title"].(string); ok {
		c.Title = v
	}
	clone := *c
	return &clone, nil
}

func (r *stubTable) Delete(_ context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func TestResourceService_CRUD(t *testing.T) {
	repo := newStubTable()
	svc := NewResourceService[domain.Category]("categories", repo, zerolog.Nop())
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.Fields{"title": "Programming"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil || got.Title != "Programming" {
		t.Fatalf("Get: %+v err=%v", got, err)
	}

	updated, err := svc.Update(ctx, created.ID, domain.Fields{"title": "Go"})
	if err != nil || updated.Title != "Go" {
		t.Fatalf("Update: %+v err=%v", updated, err)
	}

	list, _ := svc.List(ctx)
	if len(list) != 1 {
		t.Fatalf("expected one record, got %d", len(list))
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResourceService_UpdateSkipsNulls(t *testing.T) {
	repo := newStubTable()
	svc := NewResourceService[domain.Category]("categories", repo, zerolog.Nop())
	ctx := context.Background()
	created, _ := svc.Create(ctx, domain.Fields{"title": "Design"})

	got, err := svc.Update(ctx, created.ID, domain.Fields{"title": nil})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "Design" {
		t.Fatalf("null must not overwrite the title, got %q", got.Title)
	}
	if len(repo.updates) != 0 {
		t.Fatalf("an all-null update must not reach the repository: %v", repo.updates)
	}

	if _, err := svc.Update(ctx, 999, domain.Fields{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("empty update of a missing record: expected ErrNotFound, got %v", err)
	}
}
