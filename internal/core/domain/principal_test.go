package domain

import (
	"context"
	"testing"
)

func TestPrincipal_HasRole(t *testing.T) {
	admin := Principal{ID: 1, Role: RoleAdmin}
	user := Principal{ID: 2, Role: RoleUser}

	if !user.HasRole() {
		t.Error("empty role set must allow any principal")
	}
	if !admin.HasRole(RoleAdmin) {
		t.Error("admin must satisfy admin requirement")
	}
	if user.HasRole(RoleAdmin) {
		t.Error("user must not satisfy admin requirement")
	}
	if !user.HasRole(RoleAdmin, RoleUser) {
		t.Error("user must satisfy {admin,user}")
	}
}

func TestPrincipal_CanModify(t *testing.T) {
	if !(Principal{ID: 5, Role: RoleUser}).CanModify(5) {
		t.Error("owner must be able to modify")
	}
	if (Principal{ID: 6, Role: RoleUser}).CanModify(5) {
		t.Error("non-owner user must not modify")
	}
	if !(Principal{ID: 1, Role: RoleAdmin}).CanModify(5) {
		t.Error("admin must be able to modify")
	}
}

func TestPrincipalContext(t *testing.T) {
	if _, ok := PrincipalFrom(context.Background()); ok {
		t.Fatal("empty context must not carry a principal")
	}
	ctx := WithPrincipal(context.Background(), Principal{ID: 9, Role: RoleAdmin})
	p, ok := PrincipalFrom(ctx)
	if !ok || p.ID != 9 || p.Role != RoleAdmin {
		t.Fatalf("unexpected principal: %+v ok=%v", p, ok)
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole(" Admin "); !ok || r != RoleAdmin {
		t.Errorf("expected admin, got %q ok=%v", r, ok)
	}
	if _, ok := ParseRole("root"); ok {
		t.Error("unknown role must not parse")
	}
}

func TestFields_WithoutNulls(t *testing.T) {
	f := Fields{"title": "Go", "price": nil, "views": int64(0)}
	out := f.WithoutNulls()
	if out.Has("price") {
		t.Error("explicit null must be dropped")
	}
	if !out.Has("title") || !out.Has("views") {
		t.Errorf("non-null values must be kept: %v", out)
	}
	if !f.Has("price") {
		t.Error("WithoutNulls must not mutate the receiver")
	}
	cols := out.Columns()
	if len(cols) != 2 || cols[0] != "title" || cols[1] != "views" {
		t.Errorf("unexpected column order: %v", cols)
	}
}
