package graph

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/treeflat/pkg/domain"
	"github.com/aretw0/treeflat/pkg/ports"
)

// GraphOverlay contains traversal data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []domain.NodeID
}

// Collect reads every node the lister yields, in storage order.
func Collect(ctx context.Context, lister ports.NodeLister) ([]domain.Node, error) {
	var nodes []domain.Node
	err := lister.Walk(ctx, func(n domain.Node) error {
		nodes = append(nodes, n)
		return nil
	})
	return nodes, err
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a list of nodes.
// It applies semantic styling:
// - Decision: {Rhombus} labelled with its disjunction
// - Leaf: ([Stadium]) labelled with its value
// - Referenced but undeclared: [Rectangle] with the missing class
// YES edges are solid, NO edges dotted. Overlay styles are applied if provided.
func GenerateMermaid(nodes []domain.Node, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	declared := make(map[domain.NodeID]bool, len(nodes))
	for _, node := range nodes {
		declared[node.ID] = true
	}
	var missing []domain.NodeID

	for _, node := range nodes {
		safeID := mermaidID(node.ID)

		if node.IsLeaf() {
			sb.WriteString(fmt.Sprintf("    %s([\"%d: %s\"])\n", safeID, node.ID, domain.FormatValue(node.Value)))
			continue
		}

		label := make([]string, len(node.Conditions))
		for i, c := range node.Conditions {
			label[i] = c.String()
		}
		safeLabel := strings.ReplaceAll(strings.Join(label, " OR "), "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s{\"%d: %s\"}\n", safeID, node.ID, safeLabel))

		sb.WriteString(fmt.Sprintf("    %s -- \"yes\" --> %s\n", safeID, mermaidID(node.Yes)))
		sb.WriteString(fmt.Sprintf("    %s -. \"no\" .-> %s\n", safeID, mermaidID(node.No)))

		for _, child := range []domain.NodeID{node.Yes, node.No} {
			if !declared[child] && !slices.Contains(missing, child) {
				missing = append(missing, child)
			}
		}
	}

	if len(missing) > 0 {
		sb.WriteString("\n    %% Undeclared targets\n")
		sb.WriteString("    classDef missing fill:#ffebee,stroke:#c62828,stroke-dasharray:4 2,color:#000;\n")
		for _, id := range missing {
			sb.WriteString(fmt.Sprintf("    %s[\"%d ?\"]\n", mermaidID(id), id))
			sb.WriteString(fmt.Sprintf("    class %s missing;\n", mermaidID(id)))
		}
	}

	// Apply Overlay Styles
	if overlay != nil && len(overlay.VisitedNodes) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")

		seen := make(map[domain.NodeID]bool)
		for _, id := range overlay.VisitedNodes {
			if seen[id] || !declared[id] {
				continue
			}
			seen[id] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", mermaidID(id)))
		}
	}

	return sb.String()
}

func mermaidID(id domain.NodeID) string {
	return fmt.Sprintf("n%d", id)
}
