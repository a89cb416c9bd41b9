package report

import (
	"sort"

	"github.com/hashicorp/go-version"
)

// SortVersions returns a copy of versions ordered oldest first. Strings that
// do not parse as versions sort after the parseable ones, lexically.
func SortVersions(versions []string) []string {
	type entry struct {
		raw    string
		parsed *version.Version
	}
	entries := make([]entry, len(versions))
	for i, v := range versions {
		parsed, err := version.NewVersion(v)
		if err != nil {
			parsed = nil
		}
		entries[i] = entry{raw: v, parsed: parsed}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.parsed != nil && b.parsed != nil:
			if c := a.parsed.Compare(b.parsed); c != 0 {
				return c < 0
			}
			return a.raw < b.raw
		case a.parsed != nil:
			return true
		case b.parsed != nil:
			return false
		default:
			return a.raw < b.raw
		}
	})

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.raw
	}
	return out
}
