package checker

import (
	"testing"

	"github.com/c360studio/layerlint/graph"
	"github.com/c360studio/layerlint/rules"
)

func edge(srcMod string, srcLayer rules.Layer, dstMod string, dstLayer rules.Layer) graph.Edge {
	return graph.Edge{
		SourceModule: srcMod,
		SourceLayer:  srcLayer,
		TargetModule: dstMod,
		TargetLayer:  dstLayer,
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name        string
		edges       []graph.Edge
		wantReasons []string
	}{
		{
			name:        "empty graph",
			edges:       nil,
			wantReasons: nil,
		},
		{
			name: "same module edges allowed outside the repository layer",
			edges: []graph.Edge{
				edge("orders", rules.LayerController, "orders", rules.LayerService),
				edge("orders", rules.LayerService, "orders", rules.LayerRepository),
				edge("orders", rules.LayerRepository, "orders", rules.LayerEntity),
				edge("orders", rules.LayerUtil, "orders", rules.LayerController),
			},
			wantReasons: nil,
		},
		{
			name: "own repository only reachable from service",
			edges: []graph.Edge{
				edge("orders", rules.LayerController, "orders", rules.LayerRepository),
				edge("orders", rules.LayerService, "orders", rules.LayerRepository),
			},
			wantReasons: []string{"non-service-repository-access"},
		},
		{
			name: "cross module service to service allowed",
			edges: []graph.Edge{
				edge("users", rules.LayerService, "orders", rules.LayerService),
			},
			wantReasons: nil,
		},
		{
			name: "cross module repository access",
			edges: []graph.Edge{
				edge("users", rules.LayerService, "orders", rules.LayerRepository),
			},
			wantReasons: []string{"cross-module-repository-access"},
		},
		{
			name: "cross module entity access",
			edges: []graph.Edge{
				edge("users", rules.LayerService, "orders", rules.LayerEntity),
			},
			wantReasons: []string{"cross-module-entity-access"},
		},
		{
			name: "cross module controller access",
			edges: []graph.Edge{
				edge("users", rules.LayerController, "orders", rules.LayerController),
			},
			wantReasons: []string{"cross-module-access"},
		},
		{
			name: "mixed edges keep input order",
			edges: []graph.Edge{
				edge("billing", rules.LayerService, "orders", rules.LayerRepository),
				edge("billing", rules.LayerService, "orders", rules.LayerService),
				edge("users", rules.LayerDTO, "orders", rules.LayerEntity),
			},
			wantReasons: []string{
				"cross-module-repository-access",
				"cross-module-entity-access",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(&graph.Graph{Edges: tt.edges})
			if len(got) != len(tt.wantReasons) {
				t.Fatalf("Check returned %d violations, want %d: %v", len(got), len(tt.wantReasons), got)
			}
			for i, v := range got {
				if v.Reason != tt.wantReasons[i] {
					t.Errorf("violation %d reason = %q, want %q", i, v.Reason, tt.wantReasons[i])
				}
			}
		})
	}
}

func TestCheckReportsAllViolations(t *testing.T) {
	// A run surfaces every bad edge, not just the first one.
	g := &graph.Graph{Edges: []graph.Edge{
		edge("a", rules.LayerService, "b", rules.LayerRepository),
		edge("a", rules.LayerService, "c", rules.LayerRepository),
		edge("b", rules.LayerService, "c", rules.LayerEntity),
	}}

	got := Check(g)
	if len(got) != 3 {
		t.Fatalf("expected 3 violations, got %d", len(got))
	}
}

func TestViolationString(t *testing.T) {
	v := Violation{
		Edge:   edge("users", rules.LayerService, "orders", rules.LayerRepository),
		Reason: "cross-module-repository-access",
	}
	want := "users/service -> orders/repository: cross-module-repository-access"
	if got := v.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
