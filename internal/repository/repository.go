// Package repository lists the children of directory-like locations in
// artifact repositories: local directories, HTTP directory indexes and S3
// prefixes.
package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
)

// ErrNotFound may be returned by a Lister when the location does not exist.
// Callers treat it the same as a nil listing.
var ErrNotFound = errors.New("location not found")

// Lister lists the names of the resources directly under a location.
// A nil slice with a nil error means the location does not exist.
type Lister interface {
	List(ctx context.Context, location string) ([]string, error)
}

// ListerFunc adapts a function to the Lister interface.
type ListerFunc func(ctx context.Context, location string) ([]string, error)

func (f ListerFunc) List(ctx context.Context, location string) ([]string, error) {
	return f(ctx, location)
}

// ListError is a transport failure while listing a location.
type ListError struct {
	Location string
	Op       string
	Err      error
	Hint     string
}

func (e *ListError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Op, e.Location, e.Err)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *ListError) Unwrap() error {
	return e.Err
}

// HTTPClient abstracts HTTP operations for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Registry dispatches locations to listers by URL scheme. Locations without
// a scheme use the "file" lister. Registry is itself a Lister.
type Registry struct {
	listers map[string]Lister
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{listers: make(map[string]Lister)}
}

// Register adds a lister for the given scheme.
func (r *Registry) Register(scheme string, l Lister) {
	r.listers[strings.ToLower(scheme)] = l
}

// Get returns the lister for a scheme.
func (r *Registry) Get(scheme string) (Lister, error) {
	l, ok := r.listers[strings.ToLower(scheme)]
	if !ok {
		return nil, fmt.Errorf("unsupported location scheme '%s', supported schemes: %s", scheme, r.supportedSchemes())
	}
	return l, nil
}

// List lists location with the lister registered for its scheme.
func (r *Registry) List(ctx context.Context, location string) ([]string, error) {
	l, err := r.Get(Scheme(location))
	if err != nil {
		return nil, err
	}
	return l.List(ctx, location)
}

func (r *Registry) supportedSchemes() string {
	schemes := make([]string, 0, len(r.listers))
	for s := range r.listers {
		schemes = append(schemes, s)
	}
	if len(schemes) == 0 {
		return "(none registered)"
	}
	sort.Strings(schemes)
	return strings.Join(schemes, ", ")
}

var schemeRe = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.-]*)://`)

// Scheme returns the lower-cased URL scheme of a location, or "file" when it
// has none.
func Scheme(location string) string {
	m := schemeRe.FindStringSubmatch(location)
	if m == nil {
		return "file"
	}
	return strings.ToLower(m[1])
}
