package pattern

import "github.com/frederic-klein/ivyver/internal/coord"

// SubstituteNonRevision replaces every placeholder except [revision] with
// the matching value from the module and artifact.
func SubstituteNonRevision(p Pattern, m coord.Module, a coord.Artifact) Pattern {
	out := Pattern{Segments: make([]Segment, 0, len(p.Segments))}
	for _, seg := range p.Segments {
		switch seg.Kind {
		case Organisation:
			seg = Segment{Kind: Literal, Text: m.Organisation}
		case Module:
			seg = Segment{Kind: Literal, Text: m.Name}
		case Artifact:
			seg = Segment{Kind: Literal, Text: a.Name}
		case Type:
			seg = Segment{Kind: Literal, Text: a.Type}
		case Ext:
			seg = Segment{Kind: Literal, Text: a.Ext}
		}
		out.Segments = append(out.Segments, seg)
	}
	return out
}
