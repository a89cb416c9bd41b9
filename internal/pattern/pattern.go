// Package pattern models Ivy artifact location patterns such as
// "[organisation]/[module]/[revision]/[artifact]-[revision].[ext]".
package pattern

import (
	"regexp"
	"strings"
)

// Kind identifies what a segment of a pattern stands for.
type Kind int

const (
	Literal Kind = iota
	Organisation
	Module
	Revision
	Artifact
	Type
	Ext
)

var tokenKinds = map[string]Kind{
	"organisation": Organisation,
	"organization": Organisation,
	"module":       Module,
	"revision":     Revision,
	"artifact":     Artifact,
	"type":         Type,
	"ext":          Ext,
}

// Segment is either literal text or a placeholder.
// For placeholders Text holds the token name as written in the pattern.
type Segment struct {
	Kind Kind
	Text string
}

func (s Segment) String() string {
	if s.Kind == Literal {
		return s.Text
	}
	return "[" + s.Text + "]"
}

// Pattern is a parsed location pattern.
type Pattern struct {
	Segments []Segment
}

var tokenRe = regexp.MustCompile(`\[([^\[\]]*)\]`)

// Parse splits a pattern into literal runs and placeholders.
// Unknown tokens and unbalanced brackets are kept as literal text.
func Parse(s string) Pattern {
	var p Pattern
	last := 0
	for _, m := range tokenRe.FindAllStringSubmatchIndex(s, -1) {
		name := s[m[2]:m[3]]
		kind, ok := tokenKinds[name]
		if !ok {
			continue
		}
		if m[0] > last {
			p.Segments = append(p.Segments, Segment{Kind: Literal, Text: s[last:m[0]]})
		}
		p.Segments = append(p.Segments, Segment{Kind: kind, Text: name})
		last = m[1]
	}
	if last < len(s) {
		p.Segments = append(p.Segments, Segment{Kind: Literal, Text: s[last:]})
	}
	return p
}

// String renders the pattern back to its textual form.
func (p Pattern) String() string {
	var b strings.Builder
	for _, seg := range p.Segments {
		b.WriteString(seg.String())
	}
	return b.String()
}

// HasRevision reports whether the pattern contains a [revision] placeholder.
func (p Pattern) HasRevision() bool {
	return p.index(Revision) >= 0
}

func (p Pattern) index(kind Kind) int {
	for i, seg := range p.Segments {
		if seg.Kind == kind {
			return i
		}
	}
	return -1
}
