package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dars410/catalog-api/internal/api/validation"
	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

// ctxPrincipal returns the principal attached by the Auth middleware. Its
// absence means the route was mounted without Auth.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := domain.PrincipalFrom(c.Request().Context())
	if !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required").
			SetInternal(domain.ErrMissingCredentials)
	}
	return p, nil
}

// ctxPayload returns the payload stored by the ValidateBody middleware.
func ctxPayload(c echo.Context) (validation.Payload, error) {
	p, ok := validation.PayloadFrom(c.Request().Context())
	if !ok {
		return nil, errors.New("route is missing body validation")
	}
	return p, nil
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}
	return id, nil
}

// optionalFile returns the multipart file sent under field, or nil when the
// request is not multipart or carries no such file.
func optionalFile(c echo.Context, field string) (*multipart.FileHeader, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart body").SetInternal(err)
	}
	return fh, nil
}

// fileInput adapts a multipart header to the upload service input.
func fileInput(fh *multipart.FileHeader) ports.FileInput {
	return ports.FileInput{
		MediaType:    fh.Header.Get(echo.HeaderContentType),
		OriginalName: fh.Filename,
		Size:         fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
