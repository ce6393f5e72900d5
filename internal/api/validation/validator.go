package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// engine is safe for concurrent use and caches parsed tags.
var engine = validator.New()

// FieldError is one violated constraint.
type FieldError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

// Errors aggregates every violation found in a payload.
type Errors struct {
	Schema string
	Fields []FieldError
}

func (e *Errors) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validate checks raw against s. For each declared field the checks run in
// order presence, type, rules; a field that fails one stage is not checked
// further. All violations across all fields are collected before failing.
// Keys not declared in s are dropped.
func Validate(s Schema, raw map[string]any) (Payload, error) {
	out := make(Payload, len(s.Fields))
	var violations []FieldError

	for _, f := range s.Fields {
		v, present := raw[f.Name]
		if !present || v == nil {
			if f.Required {
				violations = append(violations, FieldError{
					Field:      f.Name,
					Constraint: "required",
					Message:    f.Name + " is required",
				})
			} else if present {
				out[f.Name] = nil
			}
			continue
		}

		coerced, ok := coerce(f.Kind, v)
		if !ok {
			violations = append(violations, FieldError{
				Field:      f.Name,
				Constraint: f.Kind.String(),
				Message:    fmt.Sprintf("%s must be a%s %s", f.Name, article(f.Kind), kindNoun(f.Kind)),
			})
			continue
		}

		if f.Rules != "" {
			if err := engine.Var(coerced, f.Rules); err != nil {
				var ve validator.ValidationErrors
				if !errors.As(err, &ve) {
					return nil, fmt.Errorf("schema %s field %s: %w", s.Name, f.Name, err)
				}
				for _, fe := range ve {
					violations = append(violations, fieldError(f.Name, fe))
				}
				continue
			}
		}

		out[f.Name] = coerced
	}

	if len(violations) > 0 {
		return nil, &Errors{Schema: s.Name, Fields: violations}
	}
	return out, nil
}

// coerce converts v to the Go type of k. Multipart forms deliver every value
// as a string, so numeric strings are accepted for Int fields.
func coerce(k Kind, v any) (any, bool) {
	switch k {
	case String:
		s, ok := v.(string)
		return s, ok
	case Int:
		switch n := v.(type) {
		case int64:
			return n, true
		case int:
			return int64(n), true
		case json.Number:
			i, err := n.Int64()
			return i, err == nil
		case float64:
			if n != math.Trunc(n) || math.IsNaN(n) || n >= math.MaxInt64 || n < math.MinInt64 {
				return nil, false
			}
			return int64(n), true
		case string:
			i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
			return i, err == nil
		}
	}
	return nil, false
}

// fieldError converts a single validator error into a FieldError.
func fieldError(field string, fe validator.FieldError) FieldError {
	out := FieldError{Field: field, Constraint: fe.Tag()}
	_, isString := fe.Value().(string)

	switch fe.Tag() {
	case "min":
		if isString {
			out.Message = fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		} else {
			out.Message = fmt.Sprintf("%s must not be less than %s", field, fe.Param())
		}
	case "max":
		if isString {
			out.Message = fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
		} else {
			out.Message = fmt.Sprintf("%s must not be greater than %s", field, fe.Param())
		}
	case "gte":
		out.Message = fmt.Sprintf("%s must not be less than %s", field, fe.Param())
	case "gt":
		out.Message = fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		out.Message = fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "alphanum":
		out.Message = field + " must contain only letters and numbers"
	case "url", "uri":
		out.Message = field + " must be a valid URL"
	case "startswith":
		out.Message = fmt.Sprintf("%s must start with %s", field, fe.Param())
	case "excludes":
		out.Message = fmt.Sprintf("%s must not contain %q", field, fe.Param())
	default:
		out.Message = fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
	return out
}

func article(k Kind) string {
	if k == Int {
		return "n"
	}
	return ""
}

func kindNoun(k Kind) string {
	if k == Int {
		return "integer"
	}
	return "string"
}
