package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dars410/catalog-api/internal/api/metrics"
	"github.com/dars410/catalog-api/internal/api/validation"
	"github.com/dars410/catalog-api/internal/core/ports"
)

// ReviewHandler serves one review collection (course or book reviews).
type ReviewHandler struct {
	name        string // route name, e.g. "course-reviews"
	targetField string // payload key of the reviewed item id, e.g. "courseId"
	itemKey     string // key of the nested item in listings, e.g. "course"
	service     ports.ReviewService
	create      validation.Schema
	update      validation.Schema
}

func NewReviewHandler(name, targetField, itemKey string, service ports.ReviewService) *ReviewHandler {
	create, update := ReviewSchemas(targetField)
	return &ReviewHandler{
		name:        name,
		targetField: targetField,
		itemKey:     itemKey,
		service:     service,
		create:      create,
		update:      update,
	}
}

func (h *ReviewHandler) Name() string                    { return h.name }
func (h *ReviewHandler) CreateSchema() validation.Schema { return h.create }
func (h *ReviewHandler) UpdateSchema() validation.Schema { return h.update }

// List returns every review with its author and reviewed item.
//
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Success      200   {array}  object
// @Router       /course-reviews [get]
// @Router       /book-reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	views, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]reviewListItem, 0, len(views))
	for _, v := range views {
		out = append(out, toReviewListItem(v, h.itemKey))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one review.
//
// @Summary      Get review
// @Tags         reviews
// @Produce      json
// @Param        id    path      int     true  "Review ID"
// @Success      200   {object}  reviewResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /course-reviews/{id} [get]
// @Router       /book-reviews/{id} [get]
func (h *ReviewHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	review, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewResponse(review, h.targetField))
}

// Create posts a review as the caller.
//
// @Summary      Create review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      object  true  "courseId or bookId, rating (1-5) and an optional comment"
// @Success      201   {object}  reviewResponse
// @Failure      400   {object}  ValidationErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /course-reviews [post]
// @Router       /book-reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	p, err := ctxPayload(c)
	if err != nil {
		return err
	}

	review, err := h.service.Create(c.Request().Context(), principal, p.Fields(h.create))
	if err != nil {
		return err
	}
	metrics.ResourceMutationsTotal.WithLabelValues(h.name, "create").Inc()
	return c.JSON(http.StatusCreated, toReviewResponse(review, h.targetField))
}

// Update changes the rating or comment of a review the caller owns.
//
// @Summary      Update review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int     true  "Review ID"
// @Param        body  body      object  true  "rating and/or comment"
// @Success      200   {object}  reviewResponse
// @Failure      400   {object}  ValidationErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /course-reviews/{id} [patch]
// @Router       /book-reviews/{id} [patch]
func (h *ReviewHandler) Update(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := ctxPayload(c)
	if err != nil {
		return err
	}

	review, err := h.service.Update(c.Request().Context(), principal, id, p.Fields(h.update))
	if err != nil {
		return err
	}
	metrics.ResourceMutationsTotal.WithLabelValues(h.name, "update").Inc()
	return c.JSON(http.StatusOK, toReviewResponse(review, h.targetField))
}

// Delete removes a review the caller owns.
//
// @Summary      Delete review
// @Tags         reviews
// @Security     BearerAuth
// @Param        id    path  int     true  "Review ID"
// @Success      204
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /course-reviews/{id} [delete]
// @Router       /book-reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), principal, id); err != nil {
		return err
	}
	metrics.ResourceMutationsTotal.WithLabelValues(h.name, "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
