package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dars410/catalog-api/internal/api/validation"
)

// ValidateBody decodes the request body (JSON, multipart or urlencoded form),
// checks it against schema and stores the resulting payload in the request
// context. Handlers read it back with validation.PayloadFrom.
func ValidateBody(schema validation.Schema) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := readBody(c)
			if err != nil {
				return err
			}

			payload, err := validation.Validate(schema, raw)
			if err != nil {
				return err
			}

			req := c.Request()
			c.SetRequest(req.WithContext(validation.WithPayload(req.Context(), payload)))
			return next(c)
		}
	}
}

func readBody(c echo.Context) (map[string]any, error) {
	req := c.Request()
	ctype := req.Header.Get(echo.HeaderContentType)

	switch {
	case strings.HasPrefix(ctype, echo.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart body").SetInternal(err)
		}
		return formValues(form.Value), nil

	case strings.HasPrefix(ctype, echo.MIMEApplicationForm):
		values, err := c.FormParams()
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid form body").SetInternal(err)
		}
		return formValues(values), nil
	}

	raw := map[string]any{}
	if req.Body == nil || req.Body == http.NoBody {
		return raw, nil
	}

	dec := json.NewDecoder(req.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "request body must be a JSON object").SetInternal(err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// formValues keeps the first value of every form key.
func formValues(values url.Values) map[string]any {
	raw := make(map[string]any, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			raw[k] = vs[0]
		}
	}
	return raw
}
