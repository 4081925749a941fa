package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/treeflat/pkg/domain"
	"github.com/aretw0/treeflat/pkg/ports"
)

// Engine flattens a decision tree into rules by iterative depth-first search.
//
// Every stack entry owns its constraint state (domain.Constraints is copy-on-write),
// so branches never need to be undone.
type Engine struct {
	source     ports.NodeSource
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	root       domain.NodeID
	visitLimit int
}

// Stats summarises a run.
type Stats struct {
	Visited  int           `json:"visited"`
	Rules    int           `json:"rules"`
	Pruned   int           `json:"pruned"`
	MaxStack int           `json:"max_stack"`
	Elapsed  time.Duration `json:"elapsed"`
}

// branch is a work item: the node to visit and the constraints holding on entry.
type branch struct {
	id    domain.NodeID
	state domain.Constraints
	depth int
}

// NewEngine creates a new engine reading nodes from source.
func NewEngine(source ports.NodeSource, opts ...EngineOption) *Engine {
	e := &Engine{
		source: source,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		root:   domain.RootID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run explores the tree and hands one rule per reachable leaf to sink.
//
// Order contract: at a decision node the YES branches are explored first, one
// per disjunct in source order, then the NO branch. Any lookup or parse error
// aborts the run; contradictions only discard the branch that raised them.
func (e *Engine) Run(ctx context.Context, sink ports.RuleSink) (stats Stats, err error) {
	start := time.Now()
	defer func() {
		stats.Elapsed = time.Since(start)
	}()

	stack := []branch{{id: e.root}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.MaxStack = max(stats.MaxStack, len(stack))

		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		stats.Visited++
		if e.visitLimit > 0 && stats.Visited > e.visitLimit {
			return stats, fmt.Errorf("%w: %d", domain.ErrVisitLimit, e.visitLimit)
		}

		node, err := e.source.GetNode(ctx, cur.id)
		if err != nil {
			return stats, fmt.Errorf("failed to load node %d: %w", cur.id, err)
		}
		e.emitNodeVisit(ctx, node, cur.depth)

		if node.IsLeaf() {
			rule := domain.Rule{Constraints: cur.state, Value: node.Value, Leaf: node.ID}
			if err := sink.Emit(ctx, rule); err != nil {
				return stats, fmt.Errorf("failed to emit rule for leaf %d: %w", node.ID, err)
			}
			stats.Rules++
			e.emitRule(ctx, rule)
			continue
		}

		pushed, pruned := e.expand(ctx, node, cur)
		stack = append(stack, pushed...)
		stats.Pruned += pruned
	}

	e.logger.Info("traversal finished",
		"visited", stats.Visited,
		"rules", stats.Rules,
		"pruned", stats.Pruned,
		"max_stack", stats.MaxStack,
		"elapsed", time.Since(start),
	)
	return stats, nil
}

// expand returns the children of a decision node in push order (the reverse of
// exploration order) and the number of branches discarded by contradictions.
func (e *Engine) expand(ctx context.Context, node domain.Node, cur branch) ([]branch, int) {
	children := make([]branch, 0, len(node.Conditions)+1)
	pruned := 0

	// NO: not(c1 or ... or ck) == not c1 and ... and not ck.
	if next, ok := e.negateAll(ctx, node, cur.state); ok {
		children = append(children, branch{id: node.No, state: next, depth: cur.depth + 1})
	} else {
		pruned++
	}

	// YES: one branch per disjunct. Pushed in reverse so disjunct 1 pops first.
	for _, cond := range slices.Backward(node.Conditions) {
		next, ok := cur.state.Add(cond)
		if !ok {
			pruned++
			e.emitPrune(ctx, node, domain.BranchYes, cond)
			continue
		}
		children = append(children, branch{id: node.Yes, state: next, depth: cur.depth + 1})
	}
	return children, pruned
}

// negateAll applies the negation of every condition of node in order, reporting the first
// one that contradicts the state.
func (e *Engine) negateAll(ctx context.Context, node domain.Node, state domain.Constraints) (domain.Constraints, bool) {
	next := state
	for _, cond := range domain.NegateAll(node.Conditions) {
		var ok bool
		if next, ok = next.Add(cond); !ok {
			e.emitPrune(ctx, node, domain.BranchNo, cond)
			return state, false
		}
	}
	return next, true
}
