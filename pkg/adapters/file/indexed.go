package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/aretw0/treeflat/internal/compiler"
	"github.com/aretw0/treeflat/pkg/domain"
)

// Indexed implements ports.NodeSource with a one-off id→offset index.
// Building the index costs one pass over the file; afterwards every lookup
// reads a single line at a known offset. Results are identical to Scanner:
// the first line declaring an id wins, and nodes are parsed on every lookup.
type Indexed struct {
	f       *os.File
	offsets map[domain.NodeID]int64
	parser  *compiler.Parser
}

// NewIndexed opens the file at path and indexes it.
// The caller must Close the returned source.
func NewIndexed(ctx context.Context, path string) (*Indexed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tree file: %w", err)
	}

	idx := &Indexed{
		f:       f,
		offsets: make(map[domain.NodeID]int64),
		parser:  compiler.NewParser(),
	}
	if err := idx.build(ctx); err != nil {
		_ = f.Close()
		return nil, err
	}
	return idx, nil
}

func (x *Indexed) build(ctx context.Context) error {
	var offset int64
	return eachLine(ctx, io.NewSectionReader(x.f, 0, math.MaxInt64), func(line string, size int) (bool, error) {
		start := offset
		offset += int64(size)
		if id, _, ok := x.parser.SplitID(line); ok {
			if _, seen := x.offsets[id]; !seen {
				x.offsets[id] = start
			}
		}
		return true, nil
	})
}

// Len returns the number of indexed ids.
func (x *Indexed) Len() int {
	return len(x.offsets)
}

// GetNode reads and parses the line recorded for id.
func (x *Indexed) GetNode(ctx context.Context, id domain.NodeID) (domain.Node, error) {
	if err := ctx.Err(); err != nil {
		return domain.Node{}, err
	}
	offset, ok := x.offsets[id]
	if !ok {
		return domain.Node{}, &domain.NodeError{ID: id, Err: domain.ErrNodeNotFound}
	}

	br := bufio.NewReader(io.NewSectionReader(x.f, offset, math.MaxInt64))
	line, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return domain.Node{}, fmt.Errorf("failed to read tree file: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")

	_, payload, _ := x.parser.SplitID(line)
	return x.parser.ParseNode(id, payload, strings.TrimSpace(line))
}

// Walk parses every node line of the file in order.
func (x *Indexed) Walk(ctx context.Context, fn func(domain.Node) error) error {
	return walk(ctx, io.NewSectionReader(x.f, 0, math.MaxInt64), x.parser, fn)
}

// Close releases the underlying file.
func (x *Indexed) Close() error {
	return x.f.Close()
}
