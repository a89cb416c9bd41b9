package pattern

import "strings"

// Listing is the location to list for a pattern and the template that
// listed names are matched against.
type Listing struct {
	Dir       string
	Remainder Pattern
}

// ResolveListing splits a pattern at the first [revision] placeholder.
//
// Dir is everything before the marker up to and including the last "/".
// Remainder covers the rest of the path segment holding the marker; any
// segments after it are dropped. The boolean is false when the pattern has
// no [revision] placeholder.
func ResolveListing(p Pattern) (Listing, bool) {
	idx := p.index(Revision)
	if idx < 0 {
		return Listing{}, false
	}

	var prefix strings.Builder
	for _, seg := range p.Segments[:idx] {
		prefix.WriteString(seg.String())
	}
	head := prefix.String()
	cut := strings.LastIndex(head, "/") + 1

	var rem Pattern
	if head[cut:] != "" {
		rem.Segments = append(rem.Segments, Segment{Kind: Literal, Text: head[cut:]})
	}
	for _, seg := range p.Segments[idx:] {
		if seg.Kind == Literal {
			if before, _, found := strings.Cut(seg.Text, "/"); found {
				if before != "" {
					rem.Segments = append(rem.Segments, Segment{Kind: Literal, Text: before})
				}
				break
			}
		}
		rem.Segments = append(rem.Segments, seg)
	}

	return Listing{Dir: head[:cut], Remainder: rem}, true
}
