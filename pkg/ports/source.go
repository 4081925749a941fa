package ports

import (
	"context"

	"github.com/aretw0/treeflat/pkg/domain"
)

// NodeSource defines how the traversal retrieves nodes.
// This allows the storage layer (file scan, file index, memory) to be decoupled.
//
// Implementations must not cache parsed nodes across calls, so that memory
// stays bounded by a single lookup regardless of tree size.
type NodeSource interface {
	// GetNode returns the parsed node declared by id.
	// It fails with domain.ErrNodeNotFound if no line declares id and with
	// domain.ErrMalformedNode / domain.ErrMalformedCondition if that line is invalid.
	GetNode(ctx context.Context, id domain.NodeID) (domain.Node, error)
}

// NodeLister is implemented by sources that can stream every node they hold.
// It is used by introspection tools (e.g. 'treeflat graph'), never by the traversal.
type NodeLister interface {
	// Walk calls fn for each node in storage order, stopping at the first error.
	Walk(ctx context.Context, fn func(domain.Node) error) error
}
