// Package validation turns untyped request payloads into whitelisted,
// type-coerced values according to an explicit schema.
package validation

import (
	"context"

	"github.com/dars410/catalog-api/internal/core/domain"
)

// Kind is the type a field value is coerced to.
type Kind int

const (
	String Kind = iota
	Int
)

func (k Kind) String() string {
	if k == Int {
		return "int"
	}
	return "string"
}

// Field declares one accepted payload key.
type Field struct {
	Name     string // payload key
	Column   string // storage column, defaults to Name
	Kind     Kind
	Required bool
	Rules    string // validator tags applied to the coerced value, e.g. "min=1,max=64"
}

func (f Field) column() string {
	if f.Column == "" {
		return f.Name
	}
	return f.Column
}

// Schema is the whitelist a payload is checked against.
type Schema struct {
	Name   string
	Fields []Field
}

// Partial returns a copy of s with every field optional, as used for PATCH.
func (s Schema) Partial() Schema {
	fields := make([]Field, len(s.Fields))
	for i, f := range s.Fields {
		f.Required = false
		fields[i] = f
	}
	return Schema{Name: s.Name + "Update", Fields: fields}
}

// Payload holds the validated values keyed by payload name. A nil value is
// an explicit null sent for an optional field.
type Payload map[string]any

// Fields maps p onto storage columns.
func (p Payload) Fields(s Schema) domain.Fields {
	out := make(domain.Fields, len(p))
	for _, f := range s.Fields {
		if v, ok := p[f.Name]; ok {
			out[f.column()] = v
		}
	}
	return out
}

// String returns the string value of name, or "" when absent or null.
func (p Payload) String(name string) string {
	s, _ := p[name].(string)
	return s
}

// OptionalString returns a pointer to the string value of name, or nil.
func (p Payload) OptionalString(name string) *string {
	s, ok := p[name].(string)
	if !ok {
		return nil
	}
	return &s
}

// Int returns the integer value of name and whether it was set.
func (p Payload) Int(name string) (int64, bool) {
	n, ok := p[name].(int64)
	return n, ok
}

type payloadKey struct{}

// WithPayload returns a copy of ctx carrying p.
func WithPayload(ctx context.Context, p Payload) context.Context {
	return context.WithValue(ctx, payloadKey{}, p)
}

// PayloadFrom returns the payload stored by WithPayload.
func PayloadFrom(ctx context.Context) (Payload, bool) {
	p, ok := ctx.Value(payloadKey{}).(Payload)
	return p, ok
}
