package domain

import "slices"

// Fact is the accumulated knowledge about one feature along a branch.
// Invariant: when HasEq is true, Neq is empty.
type Fact struct {
	Eq    string   `json:"eq,omitempty"`
	HasEq bool     `json:"has_eq,omitempty"`
	Neq   []string `json:"neq,omitempty"` // first-seen order
}

// Constraints is the per-branch constraint state.
//
// It is a value type: Add and AddAll never mutate the receiver, so sibling
// branches that share a prefix never observe each other's extensions.
// The zero value is the empty (unconstrained) state.
type Constraints struct {
	facts map[string]Fact
	order []string // features in first-seen order
}

// Add returns the state extended with cond.
// The boolean is false when cond contradicts what is already known (Rejected).
func (c Constraints) Add(cond Condition) (Constraints, bool) {
	cur, known := c.facts[cond.Feature]

	var next Fact
	switch cond.Op {
	case OpEquals:
		if cur.HasEq && cur.Eq != cond.Value {
			return c, false
		}
		if slices.Contains(cur.Neq, cond.Value) {
			return c, false
		}
		// Equality subsumes every inequality on the same feature.
		next = Fact{Eq: cond.Value, HasEq: true}
	case OpNotEquals:
		if cur.HasEq {
			if cur.Eq == cond.Value {
				return c, false
			}
			return c, true
		}
		if slices.Contains(cur.Neq, cond.Value) {
			return c, true
		}
		next = Fact{Neq: append(slices.Clip(cur.Neq), cond.Value)}
	default:
		return c, false
	}

	facts := make(map[string]Fact, len(c.facts)+1)
	for k, v := range c.facts {
		facts[k] = v
	}
	facts[cond.Feature] = next

	order := c.order
	if !known {
		order = append(slices.Clip(c.order), cond.Feature)
	}
	return Constraints{facts: facts, order: order}, true
}

// AddAll applies conds in order, stopping at the first contradiction.
func (c Constraints) AddAll(conds []Condition) (Constraints, bool) {
	next := c
	for _, cond := range conds {
		var ok bool
		if next, ok = next.Add(cond); !ok {
			return c, false
		}
	}
	return next, true
}

// Len returns the number of constrained features.
func (c Constraints) Len() int {
	return len(c.order)
}

// Features returns the constrained features in first-seen order.
func (c Constraints) Features() []string {
	return slices.Clone(c.order)
}

// Fact returns the knowledge held about feature.
func (c Constraints) Fact(feature string) (Fact, bool) {
	f, ok := c.facts[feature]
	return f, ok
}

// Conditions lists the state as atomic conditions, features in first-seen
// order and inequalities in first-seen order within a feature.
func (c Constraints) Conditions() []Condition {
	out := make([]Condition, 0, len(c.order))
	for _, feature := range c.order {
		f := c.facts[feature]
		if f.HasEq {
			out = append(out, Eq(feature, f.Eq))
			continue
		}
		for _, v := range f.Neq {
			out = append(out, Neq(feature, v))
		}
	}
	return out
}
