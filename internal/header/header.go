// Package header implements the registry of column names shared by all rows
// of one table.
package header

import "strconv"

// Registry is an ordered list of unique column names.
//
// Names are only ever appended: once a column has a name it keeps it for the
// lifetime of the registry.
type Registry struct {
	names []string
	index map[string]int
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		index: make(map[string]int),
	}
}

// UniqueName returns candidate, prefixed with "_" as many times as needed
// to differ from every name already in use, and reserves the result.
func (r *Registry) UniqueName(candidate string) string {
	name := candidate
	for r.used(name) {
		name = "_" + name
	}
	r.index[name] = -1
	return name
}

// Append reserves a unique name for candidate and assigns it to the next column.
func (r *Registry) Append(candidate string) string {
	name := r.UniqueName(candidate)
	r.index[name] = len(r.names)
	r.names = append(r.names, name)
	return name
}

// EnsureWidth names every column below n that has no name yet, using the
// column's zero-based index as candidate.
func (r *Registry) EnsureWidth(n int) {
	for i := len(r.names); i < n; i++ {
		r.Append(strconv.Itoa(i))
	}
}

// Len returns the number of named columns.
func (r *Registry) Len() int {
	return len(r.names)
}

// Name returns the name of column i.
func (r *Registry) Name(i int) (string, bool) {
	if i < 0 || i >= len(r.names) {
		return "", false
	}
	return r.names[i], true
}

// Index returns the column named name.
func (r *Registry) Index(name string) (int, bool) {
	i, ok := r.index[name]
	if !ok || i < 0 {
		return 0, false
	}
	return i, true
}

// Names returns a copy of the column names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

func (r *Registry) used(name string) bool {
	_, ok := r.index[name]
	return ok
}
