package importer

import (
	"slices"
	"strings"
)

// Registry holds formats in registration order. Detection tries them in that
// order, but no two formats may share a column set, so order never decides.
type Registry struct {
	formats []Format
	byName  map[string]Format
	bySet   map[string]Format
}

// NewRegistry creates an empty format registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Format),
		bySet:  make(map[string]Format),
	}
}

// Register adds a format. Panics on a duplicate name or a column set already
// claimed by another format.
func (r *Registry) Register(f Format) {
	key := strings.ToLower(f.Name())
	if _, ok := r.byName[key]; ok {
		panic("duplicate format: " + key)
	}
	set := columnSetKey(f.Columns())
	if other, ok := r.bySet[set]; ok {
		panic("format " + f.Name() + " has the same columns as " + other.Name())
	}
	r.byName[key] = f
	r.bySet[set] = f
	r.formats = append(r.formats, f)
}

// Get returns the format with the given name, or nil.
func (r *Registry) Get(name string) Format {
	return r.byName[strings.ToLower(name)]
}

// Formats returns all formats in registration order.
func (r *Registry) Formats() []Format {
	return slices.Clone(r.formats)
}

// Detect returns the format whose column set equals headers. It fails with
// ErrNoHeaders, *DuplicateHeaderError or *UnrecognizedFormatError.
func (r *Registry) Detect(headers []string) (Format, error) {
	if len(headers) == 0 {
		return nil, ErrNoHeaders
	}
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if seen[h] {
			return nil, &DuplicateHeaderError{Header: h}
		}
		seen[h] = true
	}

	for _, f := range r.formats {
		if matches(f.Columns(), seen) {
			return f, nil
		}
	}
	return nil, &UnrecognizedFormatError{Headers: slices.Clone(headers)}
}

// matches reports whether the file's header set equals the format's columns:
// every header is a column and both have the same size.
func matches(columns []string, headers map[string]bool) bool {
	if len(columns) != len(headers) {
		return false
	}
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	for h := range headers {
		if !set[h] {
			return false
		}
	}
	return true
}

func columnSetKey(columns []string) string {
	sorted := slices.Clone(columns)
	slices.Sort(sorted)
	return strings.Join(sorted, "\x1f")
}

// Headers extracts the header row of a file's first line. A trailing
// delimiter does not produce an extra empty header.
func Headers(first Line) []string {
	return trimTrailingEmpty(Tokenize(first.Text), 0)
}

// trailingDelimiters counts the empty tokens Headers drops from first.
func trailingDelimiters(first Line) int {
	return len(Tokenize(first.Text)) - len(Headers(first))
}

// DefaultRegistry returns a registry with all built-in formats.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(dkbGiro)
	r.Register(dkbGiroLegacy)
	r.Register(dkbVisa)
	r.Register(ing)
	r.Register(comdirect)
	r.Register(sparkasseCAMT)
	r.Register(sparkasseMT940)
	r.Register(volksbank)
	r.Register(postbank)
	r.Register(commerzbank)
	r.Register(consorsbank)
	return r
}
