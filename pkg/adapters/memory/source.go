package memory

import (
	"context"
	"strings"

	"github.com/aretw0/treeflat/internal/compiler"
	"github.com/aretw0/treeflat/pkg/domain"
)

// Source implements ports.NodeSource over lines held in memory.
// Lookups scan the lines sequentially, exactly like the file scanner, so it
// is a faithful stand-in for tests and for trees received as request bodies.
type Source struct {
	lines  []string
	parser *compiler.Parser
}

// NewSource creates a Source over the provided lines.
func NewSource(lines []string) *Source {
	return &Source{
		lines:  lines,
		parser: compiler.NewParser(),
	}
}

// FromText splits text on newlines (accepting CRLF) and creates a Source.
func FromText(text string) *Source {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return NewSource(lines)
}

// GetNode returns the node declared by id.
func (s *Source) GetNode(ctx context.Context, id domain.NodeID) (domain.Node, error) {
	for _, line := range s.lines {
		if err := ctx.Err(); err != nil {
			return domain.Node{}, err
		}
		lineID, payload, ok := s.parser.SplitID(line)
		if !ok || lineID != id {
			continue
		}
		return s.parser.ParseNode(id, payload, strings.TrimSpace(line))
	}
	return domain.Node{}, &domain.NodeError{ID: id, Err: domain.ErrNodeNotFound}
}

// Walk parses every node line in order.
func (s *Source) Walk(ctx context.Context, fn func(domain.Node) error) error {
	for _, line := range s.lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		node, ok, err := s.parser.ParseLine(line)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := fn(node); err != nil {
			return err
		}
	}
	return nil
}
