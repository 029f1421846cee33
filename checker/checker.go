// Package checker evaluates a dependency graph against the layering rules
// and collects violations.
//
// Violations are findings, not errors: a run that produces violations still
// completes, and all edges are evaluated so a single run surfaces every
// problem at once.
package checker

import (
	"fmt"

	"github.com/c360studio/layerlint/graph"
	"github.com/c360studio/layerlint/rules"
)

// Violation is an edge that breaks a rule, with its reason code.
type Violation struct {
	Edge   graph.Edge `json:"edge"`
	Reason string     `json:"reason"`
}

// String renders the violation in the one-line diagnostic form used by the
// CLI: "<srcModule>/<srcLayer> -> <dstModule>/<dstLayer>: <reasonCode>".
func (v *Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Edge.String(), v.Reason)
}

// Check evaluates every edge and returns all violations. The input edges
// are already sorted by source module, source layer, target module and
// target layer, and that ordering is preserved, so repeated runs on
// unchanged input produce identical output.
func Check(g *graph.Graph) []Violation {
	var violations []Violation

	for _, edge := range g.Edges {
		sameModule := edge.SameModule()
		if rules.AllowedEdge(edge.SourceLayer, edge.TargetLayer, sameModule) {
			continue
		}
		violations = append(violations, Violation{
			Edge:   edge,
			Reason: rules.Reason(edge.SourceLayer, edge.TargetLayer, sameModule),
		})
	}

	return violations
}
