package domain

// NodeID identifies a node in the tree. The root is RootID unless configured otherwise.
type NodeID int

// RootID is the implicit entry point of every tree.
const RootID NodeID = 0

// NodeKind tells the two node variants apart.
type NodeKind string

const (
	// NodeKindDecision carries a disjunction of conditions and two children.
	NodeKindDecision NodeKind = "decision"
	// NodeKindLeaf carries the outcome value.
	NodeKindLeaf NodeKind = "leaf"
)

// Node is a parsed tree node. Exactly one variant is populated:
// a decision node has Conditions, Yes and No; a leaf node has Value.
type Node struct {
	ID   NodeID   `json:"id" yaml:"id"`
	Kind NodeKind `json:"kind" yaml:"kind"`

	// Conditions is the disjunction of a decision node, in source order.
	// It is never empty for a decision node.
	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Yes        NodeID      `json:"yes,omitempty" yaml:"yes,omitempty"`
	No         NodeID      `json:"no,omitempty" yaml:"no,omitempty"`

	// Value is the outcome of a leaf node.
	Value float64 `json:"value,omitempty" yaml:"value,omitempty"`
}

// NewDecision builds a decision node.
func NewDecision(id NodeID, conds []Condition, yes, no NodeID) Node {
	return Node{ID: id, Kind: NodeKindDecision, Conditions: conds, Yes: yes, No: no}
}

// NewLeaf builds a leaf node.
func NewLeaf(id NodeID, value float64) Node {
	return Node{ID: id, Kind: NodeKindLeaf, Value: value}
}

// IsLeaf reports whether the node is a leaf.
func (n Node) IsLeaf() bool {
	return n.Kind == NodeKindLeaf
}
