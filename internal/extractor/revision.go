// Package extractor pulls revision strings out of listed resource names.
package extractor

import (
	"regexp"
	"strings"

	"github.com/frederic-klein/ivyver/internal/pattern"
)

// Matcher matches whole resource names against a listing remainder such as
// "proj1-[revision].jar".
type Matcher struct {
	re *regexp.Regexp
	// literals surround the revision markers: lit[0] rev lit[1] rev ... lit[n].
	literals []string
}

// Compile builds a Matcher for a remainder template. Every [revision] marker
// matches one or more characters other than "/", and all markers must match
// the same text.
func Compile(remainder pattern.Pattern) *Matcher {
	var (
		expr strings.Builder
		cur  strings.Builder
		lits []string
	)
	expr.WriteString("^")
	for _, seg := range remainder.Segments {
		if seg.Kind == pattern.Revision {
			expr.WriteString(regexp.QuoteMeta(cur.String()))
			expr.WriteString("([^/]+)")
			lits = append(lits, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteString(seg.String())
	}
	expr.WriteString(regexp.QuoteMeta(cur.String()))
	expr.WriteString("$")
	lits = append(lits, cur.String())

	return &Matcher{re: regexp.MustCompile(expr.String()), literals: lits}
}

// Match returns the revision captured from name.
func (m *Matcher) Match(name string) (string, bool) {
	groups := m.re.FindStringSubmatch(name)
	if len(groups) < 2 {
		return "", false
	}
	rev := groups[1]
	if allEqual(groups[1:]) {
		return rev, true
	}
	return m.matchRepeated(name)
}

// matchRepeated handles templates with several markers whose regexp captures
// disagree. It tries every candidate value, longest first.
func (m *Matcher) matchRepeated(name string) (string, bool) {
	head := m.literals[0]
	rest := name[len(head):]
	for n := len(rest); n > 0; n-- {
		rev := rest[:n]
		if strings.Contains(rev, "/") {
			continue
		}
		if strings.Join(m.literals, rev) == name {
			return rev, true
		}
	}
	return "", false
}

func allEqual(vals []string) bool {
	for _, v := range vals[1:] {
		if v != vals[0] {
			return false
		}
	}
	return true
}

// Extract returns the revisions of every name that matches the remainder,
// in listing order. Names that do not match are skipped.
func Extract(remainder pattern.Pattern, names []string) []string {
	if len(names) == 0 {
		return nil
	}
	m := Compile(remainder)
	var revs []string
	for _, name := range names {
		if rev, ok := m.Match(name); ok {
			revs = append(revs, rev)
		}
	}
	return revs
}
