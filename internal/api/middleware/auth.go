package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dars410/catalog-api/internal/api/metrics"
	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

// Auth validates the bearer access token and attaches the resulting
// principal to the request context.
//
//   - no header or no token segment: 401
//   - token rejected by the verifier: 401
//   - signing key not configured: 500
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.AuthFailuresTotal.WithLabelValues("missing_credentials").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required").
					SetInternal(domain.ErrMissingCredentials)
			}

			p, err := verifier.VerifyAccess(token)
			if errors.Is(err, domain.ErrServerMisconfigured) {
				metrics.AuthFailuresTotal.WithLabelValues("misconfigured").Inc()
				return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong").
					SetInternal(err)
			}
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token").
					SetInternal(err)
			}

			req := c.Request()
			c.SetRequest(req.WithContext(domain.WithPrincipal(req.Context(), p)))
			return next(c)
		}
	}
}

// Authenticate chains Auth and RBAC. With no roles any valid principal passes.
func Authenticate(verifier ports.TokenVerifier, roles ...domain.Role) echo.MiddlewareFunc {
	auth := Auth(verifier)
	rbac := RBAC(roles...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return auth(rbac(next))
	}
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
