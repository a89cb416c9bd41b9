package discovery

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/frederic-klein/ivyver/internal/config"
	"github.com/frederic-klein/ivyver/internal/coord"
	"github.com/frederic-klein/ivyver/internal/repository"
	"github.com/frederic-klein/ivyver/internal/visitor"
)

// Result is the outcome of listing the versions of one module.
type Result struct {
	Versions  []string // in discovery order, duplicates kept
	Attempted []string // every location that was listed
	Errors    []error  // listing failures, one per failing pattern
}

// Unique returns the versions with duplicates removed, keeping the first
// occurrence of each.
func (r *Result) Unique() []string {
	seen := make(map[string]bool, len(r.Versions))
	var out []string
	for _, v := range r.Versions {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Discoverer lists module versions across configured repositories.
type Discoverer struct {
	lister repository.Lister
	logger *log.Logger
}

// New creates a Discoverer. A nil logger discards log output.
func New(lister repository.Lister, logger *log.Logger) *Discoverer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Discoverer{lister: lister, logger: logger}
}

// ListVersions visits every Ivy pattern with the module descriptor artifact
// and every artifact pattern with the main artifact, across all repositories,
// in one session. Listing failures are logged and collected in the result;
// only context cancellation aborts the session.
func (d *Discoverer) ListVersions(ctx context.Context, module coord.Module, repos []config.Repository) (*Result, error) {
	sink := &visitor.Versions{}
	attempts := &visitor.ResolveResult{}
	v := visitor.New(module, d.lister, sink, attempts)
	result := &Result{}

	ivy := coord.IvyArtifact(module)
	jar := coord.DefaultArtifact(module)

	for _, repo := range repos {
		d.logger.Debug("Listing versions", "module", module, "repository", repo.Name)
		for _, p := range repo.IvyPatterns {
			if err := d.visit(ctx, v, p, ivy, result); err != nil {
				return nil, err
			}
		}
		for _, p := range repo.ArtifactPatterns {
			if err := d.visit(ctx, v, p, jar, result); err != nil {
				return nil, err
			}
		}
	}

	result.Versions = sink.All()
	result.Attempted = attempts.Attempted
	d.logger.Debug("Discovery finished", "module", module, "versions", len(result.Versions), "locations", len(result.Attempted))
	return result, nil
}

func (d *Discoverer) visit(ctx context.Context, v *visitor.Visitor, p string, a coord.Artifact, result *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := v.Visit(ctx, p, a)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	d.logger.Warn(err.Error(), "cause", errors.Unwrap(err))
	result.Errors = append(result.Errors, err)
	return nil
}
