package domain

import "sort"

// Fields maps storage columns to the values a create or update should write.
// A nil value means the client sent an explicit null.
type Fields map[string]any

// WithoutNulls returns a copy of f with every explicit null removed, so that
// a partial update leaves those columns untouched.
func (f Fields) WithoutNulls() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

// Columns returns the column names in f in a stable order.
func (f Fields) Columns() []string {
	cols := make([]string, 0, len(f))
	for k := range f {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Has reports whether column is present in f.
func (f Fields) Has(column string) bool {
	_, ok := f[column]
	return ok
}
