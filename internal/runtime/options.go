package runtime

import (
	"log/slog"

	"github.com/aretw0/treeflat/pkg/domain"
)

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger. Prune decisions and node visits are
// logged at Debug level.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithRoot configures the entry node (default: domain.RootID).
func WithRoot(id domain.NodeID) EngineOption {
	return func(e *Engine) {
		e.root = id
	}
}

// WithVisitLimit aborts a run with domain.ErrVisitLimit once more than n
// nodes have been fetched. Zero disables the guard. Cyclic trees never
// terminate without it.
func WithVisitLimit(n int) EngineOption {
	return func(e *Engine) {
		e.visitLimit = n
	}
}
