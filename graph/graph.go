// Package graph builds the module dependency graph from scanned units and
// their import references.
//
// An edge is recorded when an import specifier written in one unit resolves
// to another scanned unit. Cross-module edges are computed by comparing the
// Module fields of the endpoints, never by comparing path prefixes, so
// shared directory names across modules cannot produce false positives.
package graph

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/c360studio/layerlint/parser"
	"github.com/c360studio/layerlint/rules"
	"github.com/c360studio/layerlint/scanner"
)

// Reference records where an edge was observed: the originating unit and
// the import specifier as written.
type Reference struct {
	UnitPath string `json:"unit"`
	Import   string `json:"import"`
}

// Edge is a directed dependency between two (module, layer) endpoints.
// Edges with identical endpoints are collapsed; every observation is kept
// in Provenance for diagnostics.
type Edge struct {
	SourceModule string      `json:"sourceModule"`
	SourceLayer  rules.Layer `json:"sourceLayer"`
	TargetModule string      `json:"targetModule"`
	TargetLayer  rules.Layer `json:"targetLayer"`
	Provenance   []Reference `json:"provenance,omitempty"`
}

// SameModule reports whether both endpoints belong to the same module.
func (e *Edge) SameModule() bool {
	return e.SourceModule == e.TargetModule
}

// String renders the edge in the diagnostic form
// "<srcModule>/<srcLayer> -> <dstModule>/<dstLayer>".
func (e *Edge) String() string {
	return fmt.Sprintf("%s/%s -> %s/%s",
		e.SourceModule, e.SourceLayer, e.TargetModule, e.TargetLayer)
}

// key identifies an edge for deduplication.
type key struct {
	sm string
	sl rules.Layer
	tm string
	tl rules.Layer
}

// Graph is the deduplicated edge set for one scan snapshot.
type Graph struct {
	// Edges sorted by source module, source layer, target module,
	// target layer.
	Edges []Edge

	// Warnings collects per-file parse failures. A file that fails to
	// parse contributes no edges but does not abort the build.
	Warnings []string
}

// Builder constructs dependency graphs for a scan root.
type Builder struct {
	root     string
	registry *parser.Registry

	// parsers caches one parser instance per extension.
	parsers map[string]parser.FileParser
}

// NewBuilder creates a Builder for the given scan root. The registry
// supplies language parsers by file extension; pass parser.DefaultRegistry
// unless a test needs isolation.
func NewBuilder(root string, registry *parser.Registry) *Builder {
	return &Builder{
		root:     root,
		registry: registry,
		parsers:  make(map[string]parser.FileParser),
	}
}

// Build parses every scanned unit, resolves its imports against the scan
// snapshot and returns the deduplicated edge set.
func (b *Builder) Build(ctx context.Context, scan *scanner.Result) (*Graph, error) {
	resolver := newResolver(scan.Units)
	graph := &Graph{}

	edges := make(map[key]*Edge)

	for i := range scan.Units {
		unit := &scan.Units[i]

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		p, err := b.parserFor(unit.Path)
		if err != nil {
			// No parser for this extension; the unit still counts for
			// classification but contributes no edges.
			continue
		}

		result, err := p.ParseFile(ctx, filepath.Join(scan.Root, filepath.FromSlash(unit.Path)))
		if err != nil {
			graph.Warnings = append(graph.Warnings, fmt.Sprintf("%s: %v", unit.Path, err))
			continue
		}

		for _, imp := range result.Imports {
			for _, target := range resolver.resolve(unit, imp) {
				if target.Path == unit.Path {
					continue
				}
				b.record(edges, unit, target, imp)
			}
		}
	}

	graph.Edges = make([]Edge, 0, len(edges))
	for _, e := range edges {
		sort.Slice(e.Provenance, func(i, j int) bool {
			if e.Provenance[i].UnitPath != e.Provenance[j].UnitPath {
				return e.Provenance[i].UnitPath < e.Provenance[j].UnitPath
			}
			return e.Provenance[i].Import < e.Provenance[j].Import
		})
		graph.Edges = append(graph.Edges, *e)
	}

	sort.Slice(graph.Edges, func(i, j int) bool {
		a, c := &graph.Edges[i], &graph.Edges[j]
		if a.SourceModule != c.SourceModule {
			return a.SourceModule < c.SourceModule
		}
		if a.SourceLayer != c.SourceLayer {
			return a.SourceLayer < c.SourceLayer
		}
		if a.TargetModule != c.TargetModule {
			return a.TargetModule < c.TargetModule
		}
		return a.TargetLayer < c.TargetLayer
	})
	sort.Strings(graph.Warnings)

	return graph, nil
}

// record collapses the observation into the edge map.
func (b *Builder) record(edges map[key]*Edge, source *scanner.Unit, target scanner.Unit, imp string) {
	k := key{sm: source.Module, sl: source.Layer, tm: target.Module, tl: target.Layer}

	e, ok := edges[k]
	if !ok {
		e = &Edge{
			SourceModule: source.Module,
			SourceLayer:  source.Layer,
			TargetModule: target.Module,
			TargetLayer:  target.Layer,
		}
		edges[k] = e
	}

	ref := Reference{UnitPath: source.Path, Import: imp}
	for _, existing := range e.Provenance {
		if existing == ref {
			return
		}
	}
	e.Provenance = append(e.Provenance, ref)
}

// parserFor returns the (cached) parser for the unit's extension.
func (b *Builder) parserFor(unitPath string) (parser.FileParser, error) {
	ext := filepath.Ext(unitPath)
	if p, ok := b.parsers[ext]; ok {
		return p, nil
	}

	p, err := b.registry.CreateForExtension(ext, b.root)
	if err != nil {
		return nil, err
	}
	b.parsers[ext] = p
	return p, nil
}
