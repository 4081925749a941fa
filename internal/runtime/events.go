package runtime

import (
	"context"
	"time"

	"github.com/aretw0/treeflat/pkg/domain"
)

func (e *Engine) emitNodeVisit(ctx context.Context, node domain.Node, depth int) {
	e.logger.Debug("node visited", "node", node.ID, "kind", node.Kind, "depth", depth)
	if e.hooks.OnNodeVisit == nil {
		return
	}
	e.hooks.OnNodeVisit(ctx, &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventNodeVisit},
		NodeID:    node.ID,
		NodeKind:  node.Kind,
		Depth:     depth,
	})
}

func (e *Engine) emitPrune(ctx context.Context, node domain.Node, side domain.Branch, cond domain.Condition) {
	e.logger.Debug("branch pruned", "node", node.ID, "branch", side, "condition", cond.String())
	if e.hooks.OnBranchPruned == nil {
		return
	}
	e.hooks.OnBranchPruned(ctx, &domain.PruneEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventBranchPruned},
		NodeID:    node.ID,
		Branch:    side,
		Condition: cond,
	})
}

func (e *Engine) emitRule(ctx context.Context, rule domain.Rule) {
	if e.hooks.OnRuleEmitted == nil {
		return
	}
	e.hooks.OnRuleEmitted(ctx, &domain.RuleEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRuleEmitted},
		Rule:      rule,
		Line:      rule.String(),
	})
}
