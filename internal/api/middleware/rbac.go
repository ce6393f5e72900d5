package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dars410/catalog-api/internal/api/metrics"
	"github.com/dars410/catalog-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth. A
// mismatch ends the request with 403; next is never called.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := domain.PrincipalFrom(c.Request().Context())
			if !ok {
				metrics.AuthFailuresTotal.WithLabelValues("missing_credentials").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required").
					SetInternal(domain.ErrMissingCredentials)
			}
			if !p.HasRole(allowedRoles...) {
				metrics.AuthFailuresTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden").
					SetInternal(domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
