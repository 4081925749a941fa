package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/treeflat/internal/presentation/graph"
	"github.com/aretw0/treeflat/pkg/adapters/memory"
	"github.com/aretw0/treeflat/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		nodes       []domain.Node
		overlay     *graph.GraphOverlay
		contains    []string
		notContains []string
	}{
		{
			name: "Decision and Leaf Shapes",
			nodes: []domain.Node{
				domain.NewDecision(0, []domain.Condition{domain.Eq("x", "1"), domain.Neq("y", "2")}, 1, 2),
				domain.NewLeaf(1, 0.5),
				domain.NewLeaf(2, 1),
			},
			contains: []string{
				`n0{"0: x=1 OR y!=2"}`,
				`n0 -- "yes" --> n1`,
				`n0 -. "no" .-> n2`,
				`n1(["1: 0.5"])`,
				`n2(["2: 1.0"])`,
			},
			notContains: []string{"missing", "visited"},
		},
		{
			name: "Quote Escaping",
			nodes: []domain.Node{
				domain.NewDecision(0, []domain.Condition{domain.Eq("name", `"bob"`)}, 1, 1),
				domain.NewLeaf(1, 0),
			},
			contains: []string{`n0{"0: name='bob'"}`},
		},
		{
			name: "Undeclared Targets",
			nodes: []domain.Node{
				domain.NewDecision(0, []domain.Condition{domain.Eq("x", "1")}, 5, 5),
			},
			contains: []string{
				`n5["5 ?"]`,
				"class n5 missing;",
			},
		},
		{
			name: "Visited Overlay",
			nodes: []domain.Node{
				domain.NewDecision(0, []domain.Condition{domain.Eq("x", "1")}, 1, 2),
				domain.NewLeaf(1, 0.5),
				domain.NewLeaf(2, 1),
			},
			overlay: &graph.GraphOverlay{VisitedNodes: []domain.NodeID{0, 1, 0, 9}},
			contains: []string{
				"classDef visited",
				"class n0 visited;",
				"class n1 visited;",
			},
			notContains: []string{"class n2 visited;", "class n9 visited;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.nodes, tt.overlay)
			assert.True(t, strings.HasPrefix(got, "graph TD\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestGenerateMermaid_VisitedOnce(t *testing.T) {
	nodes := []domain.Node{domain.NewLeaf(0, 1)}
	got := graph.GenerateMermaid(nodes, &graph.GraphOverlay{VisitedNodes: []domain.NodeID{0, 0, 0}})
	assert.Equal(t, 1, strings.Count(got, "class n0 visited;"))
}

func TestCollect(t *testing.T) {
	src := memory.FromText("# tree\n1:leaf=2\n0:[x=1] yes=1,no=1\n")

	nodes, err := graph.Collect(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, domain.NodeID(1), nodes[0].ID)
	assert.Equal(t, domain.NodeID(0), nodes[1].ID)
}
