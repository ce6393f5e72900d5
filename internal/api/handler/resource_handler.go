package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dars410/catalog-api/internal/api/metrics"
	"github.com/dars410/catalog-api/internal/api/validation"
	"github.com/dars410/catalog-api/internal/core/ports"
)

// ResourceHandler serves list/get/create/update/delete for one catalog
// resource. The same implementation backs every catalog table.
type ResourceHandler[T any] struct {
	name    string
	service ports.ResourceService[T]
	create  validation.Schema
	update  validation.Schema
}

// NewResourceHandler builds a handler whose update schema is the create
// schema with every field optional.
func NewResourceHandler[T any](name string, service ports.ResourceService[T], create validation.Schema) *ResourceHandler[T] {
	return &ResourceHandler[T]{
		name:    name,
		service: service,
		create:  create,
		update:  create.Partial(),
	}
}

func (h *ResourceHandler[T]) Name() string                    { return h.name }
func (h *ResourceHandler[T]) CreateSchema() validation.Schema { return h.create }
func (h *ResourceHandler[T]) UpdateSchema() validation.Schema { return h.update }

// List returns every row of the resource.
//
// @Summary      List catalog items
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  object
// @Router       /authors [get]
// @Router       /categories [get]
// @Router       /levels [get]
// @Router       /sections [get]
// @Router       /languages [get]
// @Router       /courses [get]
// @Router       /books [get]
// @Router       /news [get]
func (h *ResourceHandler[T]) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, items)
}

// @Summary      Get catalog item
// @Tags         catalog
// @Produce      json
// @Param        id   path      int  true  "Item ID"
// @Success      200  {object}  object
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /authors/{id} [get]
// @Router       /categories/{id} [get]
// @Router       /levels/{id} [get]
// @Router       /sections/{id} [get]
// @Router       /languages/{id} [get]
// @Router       /courses/{id} [get]
// @Router       /books/{id} [get]
// @Router       /news/{id} [get]
func (h *ResourceHandler[T]) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	item, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// @Summary      Create catalog item
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      object  true  "Fields of the resource"
// @Success      201   {object}  object
// @Failure      400   {object}  ValidationErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /authors [post]
// @Router       /categories [post]
// @Router       /levels [post]
// @Router       /sections [post]
// @Router       /languages [post]
// @Router       /courses [post]
// @Router       /books [post]
// @Router       /news [post]
func (h *ResourceHandler[T]) Create(c echo.Context) error {
	p, err := ctxPayload(c)
	if err != nil {
		return err
	}
	item, err := h.service.Create(c.Request().Context(), p.Fields(h.create))
	if err != nil {
		return err
	}
	metrics.ResourceMutationsTotal.WithLabelValues(h.name, "create").Inc()
	return c.JSON(http.StatusCreated, item)
}

// Update applies a partial change; fields sent as null keep their value.
//
// @Summary      Update catalog item
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int     true  "Item ID"
// @Param        body  body      object  true  "Fields to change; null leaves a field unchanged"
// @Success      200   {object}  object
// @Failure      400   {object}  ValidationErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /authors/{id} [patch]
// @Router       /categories/{id} [patch]
// @Router       /levels/{id} [patch]
// @Router       /sections/{id} [patch]
// @Router       /languages/{id} [patch]
// @Router       /courses/{id} [patch]
// @Router       /books/{id} [patch]
// @Router       /news/{id} [patch]
func (h *ResourceHandler[T]) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := ctxPayload(c)
	if err != nil {
		return err
	}
	item, err := h.service.Update(c.Request().Context(), id, p.Fields(h.update))
	if err != nil {
		return err
	}
	metrics.ResourceMutationsTotal.WithLabelValues(h.name, "update").Inc()
	return c.JSON(http.StatusOK, item)
}

// @Summary      Delete catalog item
// @Tags         catalog
// @Security     BearerAuth
// @Param        id   path  int  true  "Item ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /authors/{id} [delete]
// @Router       /categories/{id} [delete]
// @Router       /levels/{id} [delete]
// @Router       /sections/{id} [delete]
// @Router       /languages/{id} [delete]
// @Router       /courses/{id} [delete]
// @Router       /books/{id} [delete]
// @Router       /news/{id} [delete]
func (h *ResourceHandler[T]) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	metrics.ResourceMutationsTotal.WithLabelValues(h.name, "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
