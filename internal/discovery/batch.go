package discovery

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/frederic-klein/ivyver/internal/config"
	"github.com/frederic-klein/ivyver/internal/coord"
)

// ListAll runs one ListVersions session per module, at most jobs at a time,
// and returns the results in module order. Each session keeps its own
// visited set. jobs < 1 means one at a time.
func (d *Discoverer) ListAll(ctx context.Context, modules []coord.Module, repos []config.Repository, jobs int) ([]*Result, error) {
	if jobs < 1 {
		jobs = 1
	}

	results := make([]*Result, len(modules))
	g, egCtx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, module := range modules {
		g.Go(func() error {
			result, err := d.ListVersions(egCtx, module, repos)
			if err != nil {
				return fmt.Errorf("listing versions of %s: %w", module, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
