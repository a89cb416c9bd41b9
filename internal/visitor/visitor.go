// Package visitor discovers the revisions of a module that a repository
// holds, one location pattern at a time.
package visitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/frederic-klein/ivyver/internal/coord"
	"github.com/frederic-klein/ivyver/internal/extractor"
	"github.com/frederic-klein/ivyver/internal/pattern"
	"github.com/frederic-klein/ivyver/internal/repository"
)

// Versions is an append-only, ordered list of discovered revisions.
// Duplicates are kept.
type Versions struct {
	items []string
}

// Add appends revisions in order.
func (v *Versions) Add(revs ...string) {
	v.items = append(v.items, revs...)
}

// All returns the revisions discovered so far.
func (v *Versions) All() []string {
	return v.items
}

// Len returns the number of revisions discovered so far.
func (v *Versions) Len() int {
	return len(v.items)
}

// ResolveResult records every location that was listed during a session.
type ResolveResult struct {
	Attempted []string
}

// Attempt records a listed location.
func (r *ResolveResult) Attempt(location string) {
	r.Attempted = append(r.Attempted, location)
}

// ResolveError reports that a repository listing failed for a pattern.
type ResolveError struct {
	Pattern string
	Err     error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("Could not list versions using Ivy pattern '%s'.", e.Pattern)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Visitor lists the versions of one module across several location
// patterns. Each listing directory is requested at most once.
//
// A Visitor is not safe for concurrent use.
type Visitor struct {
	module  coord.Module
	lister  repository.Lister
	sink    *Versions
	result  *ResolveResult
	visited map[string]bool
}

// New creates a Visitor for one discovery session.
func New(module coord.Module, lister repository.Lister, sink *Versions, result *ResolveResult) *Visitor {
	return &Visitor{
		module:  module,
		lister:  lister,
		sink:    sink,
		result:  result,
		visited: make(map[string]bool),
	}
}

// Visit lists the directory that patternText resolves to for artifact and
// adds every matching revision to the sink. Patterns without a [revision]
// placeholder are ignored. A listing failure is returned as a *ResolveError;
// the Visitor remains usable afterwards.
func (v *Visitor) Visit(ctx context.Context, patternText string, artifact coord.Artifact) error {
	p := pattern.SubstituteNonRevision(pattern.Parse(patternText), v.module, artifact)
	listing, ok := pattern.ResolveListing(p)
	if !ok {
		return nil
	}

	if v.visited[listing.Dir] {
		return nil
	}
	v.visited[listing.Dir] = true

	v.result.Attempt(listing.Dir)
	names, err := v.lister.List(ctx, listing.Dir)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return &ResolveError{Pattern: patternText, Err: err}
	}

	v.sink.Add(extractor.Extract(listing.Remainder, names)...)
	return nil
}
