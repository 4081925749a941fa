package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/treeflat/internal/compiler"
	"github.com/aretw0/treeflat/pkg/domain"
)

// Scanner implements ports.NodeSource by scanning a tree file from the top on
// every lookup. It holds nothing but the path between calls: memory is bounded
// by one line, and each lookup costs one pass over the file.
type Scanner struct {
	Path   string
	parser *compiler.Parser
}

// NewScanner creates a Scanner for the file at path.
// The file is checked for readability up front so a missing input fails early.
func NewScanner(path string) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tree file: %w", err)
	}
	_ = f.Close()

	return &Scanner{
		Path:   path,
		parser: compiler.NewParser(),
	}, nil
}

// GetNode returns the first node declared by id.
func (s *Scanner) GetNode(ctx context.Context, id domain.NodeID) (domain.Node, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return domain.Node{}, fmt.Errorf("failed to open tree file: %w", err)
	}
	defer f.Close()

	var (
		node  domain.Node
		found bool
	)
	err = eachLine(ctx, f, func(line string, _ int) (bool, error) {
		lineID, payload, ok := s.parser.SplitID(line)
		if !ok || lineID != id {
			return true, nil
		}
		found = true
		var parseErr error
		node, parseErr = s.parser.ParseNode(id, payload, strings.TrimSpace(line))
		return false, parseErr
	})
	if err != nil {
		return domain.Node{}, err
	}
	if !found {
		return domain.Node{}, &domain.NodeError{ID: id, Err: domain.ErrNodeNotFound}
	}
	return node, nil
}

// Walk parses every node line of the file in order.
func (s *Scanner) Walk(ctx context.Context, fn func(domain.Node) error) error {
	f, err := os.Open(s.Path)
	if err != nil {
		return fmt.Errorf("failed to open tree file: %w", err)
	}
	defer f.Close()

	return walk(ctx, f, s.parser, fn)
}

func walk(ctx context.Context, r io.Reader, parser *compiler.Parser, fn func(domain.Node) error) error {
	return eachLine(ctx, r, func(line string, _ int) (bool, error) {
		node, ok, err := parser.ParseLine(line)
		if err != nil || !ok {
			return true, err
		}
		return true, fn(node)
	})
}

// eachLine feeds r line by line to fn until fn returns false, fn fails, or the
// input ends. fn gets the line without its terminator and the raw byte length
// including it. Lines may be arbitrarily long.
func eachLine(ctx context.Context, r io.Reader, fn func(line string, size int) (bool, error)) error {
	br := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("failed to read tree file: %w", readErr)
		}
		if line != "" {
			more, err := fn(strings.TrimRight(line, "\r\n"), len(line))
			if err != nil {
				return err
			}
			if !more {
				return nil
			}
		}
		if readErr != nil {
			return nil
		}
	}
}
