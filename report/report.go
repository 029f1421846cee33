// Package report renders validation results in the supported output
// formats.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/layerlint/checker"
	"github.com/c360studio/layerlint/graph"
	"github.com/c360studio/layerlint/scanner"
)

// Format identifies an output format.
type Format string

const (
	// FormatText prints one line per violation, nothing else. This is
	// the contract automated checks parse.
	FormatText Format = "text"

	// FormatJSON prints the full report as a single JSON document.
	FormatJSON Format = "json"
)

// FormatInfo provides metadata about an output format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatText: {
		Name:        FormatText,
		MIMEType:    "text/plain",
		Extension:   ".txt",
		Description: "One diagnostic line per violation",
	},
	FormatJSON: {
		Name:        FormatJSON,
		MIMEType:    "application/json",
		Extension:   ".json",
		Description: "Full validation report as JSON",
	},
}

// ParseFormat validates a format name from the CLI.
func ParseFormat(name string) (Format, error) {
	f := Format(name)
	if _, ok := FormatRegistry[f]; !ok {
		return "", fmt.Errorf("unknown format: %s", name)
	}
	return f, nil
}

// Report is the full result of one validation run.
type Report struct {
	RunID        string              `json:"runId"`
	GeneratedAt  time.Time           `json:"generatedAtUtc"`
	Root         string              `json:"root"`
	Modules      []string            `json:"modules"`
	UnitCount    int                 `json:"unitCount"`
	Edges        []graph.Edge        `json:"edges"`
	Violations   []checker.Violation `json:"violations"`
	Unclassified []scanner.Unit      `json:"unclassified,omitempty"`
	Warnings     []string            `json:"warnings,omitempty"`
}

// New assembles a report from one scan/build/check pass.
func New(scan *scanner.Result, g *graph.Graph, violations []checker.Violation) *Report {
	moduleSet := make(map[string]bool)
	for _, u := range scan.Units {
		moduleSet[u.Module] = true
	}
	modules := make([]string, 0, len(moduleSet))
	for m := range moduleSet {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	warnings := make([]string, 0, len(scan.Warnings)+len(g.Warnings))
	warnings = append(warnings, scan.Warnings...)
	warnings = append(warnings, g.Warnings...)
	sort.Strings(warnings)

	return &Report{
		RunID:        uuid.New().String(),
		GeneratedAt:  time.Now().UTC(),
		Root:         scan.Root,
		Modules:      modules,
		UnitCount:    len(scan.Units),
		Edges:        g.Edges,
		Violations:   violations,
		Unclassified: scan.Unclassified(),
		Warnings:     warnings,
	}
}

// Write renders the report to w in the requested format.
func (r *Report) Write(w io.Writer, format Format) error {
	switch format {
	case FormatText:
		return r.writeText(w)
	case FormatJSON:
		return r.writeJSON(w)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeText prints one line per violation. A clean run prints nothing.
func (r *Report) writeText(w io.Writer) error {
	for i := range r.Violations {
		if _, err := fmt.Fprintln(w, r.Violations[i].String()); err != nil {
			return err
		}
	}
	return nil
}

func (r *Report) writeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
