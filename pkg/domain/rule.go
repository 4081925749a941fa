package domain

import (
	"math"
	"strconv"
	"strings"
)

// AtomSeparator joins the atoms of a rendered rule.
const AtomSeparator = " & "

// Rule is the terminal product of a traversal: the constraints that hold on
// the path to a leaf and the leaf's value. It is rendered once and never mutated.
type Rule struct {
	Constraints Constraints
	Value       float64
	Leaf        NodeID
}

// String renders the canonical rule line, e.g. "x!=1 & x!=2 : 0.1".
// An unconstrained rule renders as ": <value>".
func (r Rule) String() string {
	return strings.TrimSpace(FormatConstraints(r.Constraints) + " : " + FormatValue(r.Value))
}

// FormatConstraints renders every fact as an atom, features in first-seen
// order, one "f!=v" atom per excluded value in first-seen order.
func FormatConstraints(c Constraints) string {
	conds := c.Conditions()
	parts := make([]string, len(conds))
	for i, cond := range conds {
		parts[i] = cond.String()
	}
	return strings.Join(parts, AtomSeparator)
}

// FormatValue renders a leaf value in shortest round-trip form. Integral
// values keep a ".0" suffix; magnitudes outside [1e-4, 1e16) use exponent form.
func FormatValue(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
