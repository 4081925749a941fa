package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeVisit    EventType = "node_visit"
	EventBranchPruned EventType = "branch_pruned"
	EventRuleEmitted  EventType = "rule_emitted"
)

// Branch names the side of a decision a pruned branch belonged to.
type Branch string

const (
	BranchYes Branch = "yes"
	BranchNo  Branch = "no"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NodeEvent is raised each time the traversal fetches a node.
type NodeEvent struct {
	EventBase
	NodeID   NodeID   `json:"node_id"`
	NodeKind NodeKind `json:"node_kind"`
	Depth    int      `json:"depth"`
}

// PruneEvent is raised when a branch is discarded because of a contradiction.
type PruneEvent struct {
	EventBase
	NodeID    NodeID    `json:"node_id"`
	Branch    Branch    `json:"branch"`
	Condition Condition `json:"condition"`
}

// RuleEvent is raised after a rule has been handed to the sink.
type RuleEvent struct {
	EventBase
	Rule Rule   `json:"-"`
	Line string `json:"line"`
}

// LifecycleHooks defines callbacks for traversal observability.
type LifecycleHooks struct {
	OnNodeVisit    func(context.Context, *NodeEvent)
	OnBranchPruned func(context.Context, *PruneEvent)
	OnRuleEmitted  func(context.Context, *RuleEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnNodeVisit:    chain(h.OnNodeVisit, other.OnNodeVisit),
		OnBranchPruned: chain(h.OnBranchPruned, other.OnBranchPruned),
		OnRuleEmitted:  chain(h.OnRuleEmitted, other.OnRuleEmitted),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
