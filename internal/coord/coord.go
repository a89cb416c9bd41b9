package coord

import (
	"fmt"
	"strings"
)

// Module identifies an Ivy module.
type Module struct {
	Organisation string // e.g., "org.acme"
	Name         string // e.g., "proj1"
	Revision     string // optional, e.g., "1.2"
}

// Artifact describes one artifact published by a module.
type Artifact struct {
	Name string // e.g., "proj1"
	Type string // e.g., "jar", "ivy"
	Ext  string // e.g., "jar", "xml"
}

// ParseModule parses the "org#name;revision" form. The revision is optional.
func ParseModule(s string) (Module, error) {
	s = strings.TrimSpace(s)
	orgName, rev, _ := strings.Cut(s, ";")
	org, name, ok := strings.Cut(orgName, "#")
	if !ok {
		return Module{}, fmt.Errorf("invalid module %q: expected org#name[;revision]", s)
	}
	if org == "" || name == "" {
		return Module{}, fmt.Errorf("invalid module %q: organisation and name are required", s)
	}
	return Module{Organisation: org, Name: name, Revision: rev}, nil
}

func (m Module) String() string {
	if m.Revision == "" {
		return m.Organisation + "#" + m.Name
	}
	return m.Organisation + "#" + m.Name + ";" + m.Revision
}

// IvyArtifact returns the module descriptor artifact (ivy.xml).
func IvyArtifact(Module) Artifact {
	return Artifact{Name: "ivy", Type: "ivy", Ext: "xml"}
}

// DefaultArtifact returns the main jar artifact of the module.
func DefaultArtifact(m Module) Artifact {
	return Artifact{Name: m.Name, Type: "jar", Ext: "jar"}
}
