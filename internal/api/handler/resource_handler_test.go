package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dars410/catalog-api/internal/api/validation"
	"github.com/dars410/catalog-api/internal/core/domain"
)

func TestResourceHandler_ListEmptyIsArray(t *testing.T) {
	h := NewResourceHandler[domain.Category]("categories", &stubResourceService[domain.Category]{}, CategorySchema)

	c, rec := newContext(t, httptest.NewRequest(http.MethodGet, "/categories", nil), nil, nil)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected an empty JSON array, got %q", body)
	}
}

func TestResourceHandler_Get(t *testing.T) {
	svc := &stubResourceService[domain.Language]{items: []domain.Language{{ID: 1, Title: "English", Code: "en"}}}
	h := NewResourceHandler[domain.Language]("languages", svc, LanguageSchema)

	c, rec := newContext(t, httptest.NewRequest(http.MethodGet, "/languages/1", nil), nil, nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var got domain.Language
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil || got.Code != "en" {
		t.Fatalf("unexpected body %s: %v", rec.Body.String(), err)
	}

	c, _ = newContext(t, httptest.NewRequest(http.MethodGet, "/languages/2", nil), nil, nil)
	c.SetParamNames("id")
	c.SetParamValues("2")
	if err := h.Get(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResourceHandler_CreateMapsColumns(t *testing.T) {
	svc := &stubResourceService[domain.Course]{}
	h := NewResourceHandler[domain.Course]("courses", svc, CourseSchema)

	payload := validation.Payload{"title": "Go", "imageUrl": "/uploads/image/a.png", "languagesId": int64(2), "price": int64(100)}
	c, rec := newContext(t, httptest.NewRequest(http.MethodPost, "/courses", nil), payload, nil)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.created["image_url"] != "/uploads/image/a.png" || svc.created["language_id"] != int64(2) || svc.created["title"] != "Go" {
		t.Fatalf("payload not mapped to columns: %v", svc.created)
	}
}

func TestResourceHandler_UpdateSchemaIsPartial(t *testing.T) {
	h := NewResourceHandler[domain.Course]("courses", &stubResourceService[domain.Course]{}, CourseSchema)
	for _, f := range h.UpdateSchema().Fields {
		if f.Required {
			t.Errorf("update field %s must be optional", f.Name)
		}
	}
	if len(h.UpdateSchema().Fields) != len(h.CreateSchema().Fields) {
		t.Error("update schema must accept the same fields as create")
	}
}

func TestResourceHandler_UpdateAndDelete(t *testing.T) {
	svc := &stubResourceService[domain.News]{}
	h := NewResourceHandler[domain.News]("news", svc, NewsSchema)

	c, rec := newContext(t, httptest.NewRequest(http.MethodPatch, "/news/1", nil), validation.Payload{"newsImgUrl": "x.png"}, nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Update(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", rec.Code, err)
	}
	if svc.updated["news_img_url"] != "x.png" {
		t.Fatalf("unexpected update fields: %v", svc.updated)
	}

	c, rec = newContext(t, httptest.NewRequest(http.MethodDelete, "/news/1", nil), nil, nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Delete(c); err != nil || rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %v", rec.Code, err)
	}
}
