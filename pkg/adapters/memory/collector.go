package memory

import (
	"context"
	"sync"

	"github.com/aretw0/treeflat/pkg/domain"
)

// Collector implements ports.RuleSink in memory.
// Safe for concurrent use.
type Collector struct {
	rules []domain.Rule
	mu    sync.RWMutex
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Emit appends the rule.
func (c *Collector) Emit(ctx context.Context, rule domain.Rule) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = append(c.rules, rule)
	return nil
}

// Flush is a no-op; rules are visible as soon as they are emitted.
func (c *Collector) Flush(ctx context.Context) error {
	return nil
}

// Rules returns a copy of the collected rules in emission order.
func (c *Collector) Rules() []domain.Rule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Lines returns the rendered rules in emission order.
func (c *Collector) Lines() []string {
	rules := c.Rules()
	lines := make([]string, len(rules))
	for i, r := range rules {
		lines[i] = r.String()
	}
	return lines
}
