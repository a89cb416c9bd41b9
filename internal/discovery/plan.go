package discovery

import (
	"github.com/frederic-klein/ivyver/internal/config"
	"github.com/frederic-klein/ivyver/internal/coord"
	"github.com/frederic-klein/ivyver/internal/pattern"
)

// Step describes how one pattern is listed for a module.
type Step struct {
	Repository string
	Pattern    string
	Artifact   coord.Artifact
	Dir        string // location passed to the lister
	Remainder  string // template listed names are matched against
	Listable   bool   // false when the pattern has no [revision] placeholder
}

// Plan returns, without listing anything, the location and match template
// that every pattern of repos resolves to for module.
func Plan(module coord.Module, repos []config.Repository) []Step {
	var steps []Step
	add := func(repo, p string, a coord.Artifact) {
		listing, ok := pattern.ResolveListing(pattern.SubstituteNonRevision(pattern.Parse(p), module, a))
		steps = append(steps, Step{
			Repository: repo,
			Pattern:    p,
			Artifact:   a,
			Dir:        listing.Dir,
			Remainder:  listing.Remainder.String(),
			Listable:   ok,
		})
	}

	for _, repo := range repos {
		for _, p := range repo.IvyPatterns {
			add(repo.Name, p, coord.IvyArtifact(module))
		}
		for _, p := range repo.ArtifactPatterns {
			add(repo.Name, p, coord.DefaultArtifact(module))
		}
	}
	return steps
}
