package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

// Audit hands an entry to recorder for every successful POST, PATCH, PUT or
// DELETE. Recording is asynchronous and never affects the response.
func Audit(recorder ports.AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil || !isMutation(c.Request().Method) {
				return err
			}

			status := c.Response().Status
			if status >= http.StatusBadRequest {
				return nil
			}

			req := c.Request()
			entry := domain.AuditEntry{
				Method:     req.Method,
				Path:       req.URL.Path,
				Resource:   resourceOf(c.Path()),
				Status:     status,
				RequestID:  c.Response().Header().Get(echo.HeaderXRequestID),
				OccurredAt: time.Now().UTC(),
			}
			if p, ok := domain.PrincipalFrom(req.Context()); ok {
				entry.ActorID = p.ID
				entry.ActorRole = p.Role
			}

			recorder.Enqueue(entry)
			return nil
		}
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// resourceOf returns the first segment of a route pattern: "/courses/:id" -> "courses".
func resourceOf(route string) string {
	route = strings.TrimPrefix(route, "/")
	if i := strings.IndexByte(route, '/'); i >= 0 {
		route = route[:i]
	}
	return route
}
