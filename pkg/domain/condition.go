package domain

// Operator is the comparison of an atomic condition.
type Operator string

const (
	OpEquals    Operator = "="
	OpNotEquals Operator = "!="
)

// Negate returns the complementary operator.
func (op Operator) Negate() Operator {
	if op == OpEquals {
		return OpNotEquals
	}
	return OpEquals
}

// Condition is an atomic feature/operator/value fact, e.g. x=4.
// Feature and Value are stored trimmed.
type Condition struct {
	Feature string   `json:"feature" yaml:"feature"`
	Op      Operator `json:"op" yaml:"op"`
	Value   string   `json:"value" yaml:"value"`
}

// Eq is shorthand for an equality condition.
func Eq(feature, value string) Condition {
	return Condition{Feature: feature, Op: OpEquals, Value: value}
}

// Neq is shorthand for an inequality condition.
func Neq(feature, value string) Condition {
	return Condition{Feature: feature, Op: OpNotEquals, Value: value}
}

// Negate flips the operator, keeping feature and value.
func (c Condition) Negate() Condition {
	return Condition{Feature: c.Feature, Op: c.Op.Negate(), Value: c.Value}
}

func (c Condition) String() string {
	return c.Feature + string(c.Op) + c.Value
}

// NegateAll returns the negation of every condition, preserving order.
// Applied conjunctively it is the De Morgan complement of the disjunction.
func NegateAll(conds []Condition) []Condition {
	out := make([]Condition, len(conds))
	for i, c := range conds {
		out[i] = c.Negate()
	}
	return out
}
