package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/frederic-klein/ivyver/internal/coord"
	"github.com/frederic-klein/ivyver/internal/discovery"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format '%s', must be one of: text, json, yaml", s)
}

// Report is the serialisable outcome of a version listing.
type Report struct {
	Module    string   `json:"module" yaml:"module"`
	Versions  []string `json:"versions" yaml:"versions"`
	Attempted []string `json:"attempted" yaml:"attempted"`
	Errors    []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// New builds a Report from a discovery result. versions overrides
// result.Versions so callers can pass a deduplicated or sorted list.
func New(module coord.Module, result *discovery.Result, versions []string) Report {
	r := Report{
		Module:    module.String(),
		Versions:  versions,
		Attempted: result.Attempted,
	}
	if r.Versions == nil {
		r.Versions = []string{}
	}
	if r.Attempted == nil {
		r.Attempted = []string{}
	}
	for _, err := range result.Errors {
		msg := err.Error()
		if cause := errors.Unwrap(err); cause != nil {
			msg += " " + cause.Error()
		}
		r.Errors = append(r.Errors, msg)
	}
	return r
}

// Emitter writes reports.
type Emitter struct {
	w      io.Writer
	format Format
}

// NewEmitter creates a new report emitter.
func NewEmitter(w io.Writer, format Format) *Emitter {
	return &Emitter{w: w, format: format}
}

// Emit writes a report in the emitter's format.
func (e *Emitter) Emit(r Report) error {
	switch e.format {
	case FormatJSON:
		enc := json.NewEncoder(e.w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(e.w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return e.emitText(r)
	}
}

// EmitAll writes the reports of several modules. Text output prefixes
// every version with its module; JSON and YAML output a list.
func (e *Emitter) EmitAll(reports []Report) error {
	switch e.format {
	case FormatJSON:
		enc := json.NewEncoder(e.w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case FormatYAML:
		enc := yaml.NewEncoder(e.w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	}

	for _, r := range reports {
		if len(r.Versions) == 0 {
			if err := e.emitNotFound(r); err != nil {
				return err
			}
			continue
		}
		for _, v := range r.Versions {
			if _, err := fmt.Fprintf(e.w, "%s %s\n", r.Module, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Emitter) emitText(r Report) error {
	if len(r.Versions) == 0 {
		if err := e.emitNotFound(r); err != nil {
			return err
		}
	}

	for _, v := range r.Versions {
		if _, err := fmt.Fprintln(e.w, v); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) emitNotFound(r Report) error {
	if len(r.Attempted) == 0 {
		_, err := fmt.Fprintf(e.w, "No versions of %s found: no pattern has a [revision] placeholder.\n", r.Module)
		return err
	}

	if _, err := fmt.Fprintf(e.w, "No versions of %s found. Searched in the following locations:\n", r.Module); err != nil {
		return err
	}
	for _, loc := range r.Attempted {
		if loc == "" {
			loc = "(repository root)"
		}
		if _, err := fmt.Fprintf(e.w, "  %s\n", loc); err != nil {
			return err
		}
	}
	return e.emitErrors(r)
}

func (e *Emitter) emitErrors(r Report) error {
	if len(r.Errors) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(e.w, "The following listings failed:"); err != nil {
		return err
	}
	for _, msg := range r.Errors {
		if _, err := fmt.Fprintf(e.w, "  %s\n", msg); err != nil {
			return err
		}
	}
	return nil
}

// EmitPlan writes the listing location and match template of every step.
func (e *Emitter) EmitPlan(steps []discovery.Step) error {
	switch e.format {
	case FormatJSON:
		enc := json.NewEncoder(e.w)
		enc.SetIndent("", "  ")
		return enc.Encode(planEntries(steps))
	case FormatYAML:
		enc := yaml.NewEncoder(e.w)
		enc.SetIndent(2)
		if err := enc.Encode(planEntries(steps)); err != nil {
			return err
		}
		return enc.Close()
	}

	for _, s := range steps {
		if _, err := fmt.Fprintf(e.w, "%s %s\n", s.Repository, s.Pattern); err != nil {
			return err
		}
		if !s.Listable {
			if _, err := fmt.Fprint(e.w, "    (no [revision] placeholder, skipped)\n"); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(e.w, "    list:  %q\n    match: %s\n", s.Dir, s.Remainder); err != nil {
			return err
		}
	}
	return nil
}

type planEntry struct {
	Repository string `json:"repository" yaml:"repository"`
	Pattern    string `json:"pattern" yaml:"pattern"`
	Artifact   string `json:"artifact" yaml:"artifact"`
	Listable   bool   `json:"listable" yaml:"listable"`
	Dir        string `json:"dir,omitempty" yaml:"dir,omitempty"`
	Remainder  string `json:"match,omitempty" yaml:"match,omitempty"`
}

func planEntries(steps []discovery.Step) []planEntry {
	entries := make([]planEntry, 0, len(steps))
	for _, s := range steps {
		entries = append(entries, planEntry{
			Repository: s.Repository,
			Pattern:    s.Pattern,
			Artifact:   s.Artifact.Name + "." + s.Artifact.Ext,
			Listable:   s.Listable,
			Dir:        s.Dir,
			Remainder:  s.Remainder,
		})
	}
	return entries
}
