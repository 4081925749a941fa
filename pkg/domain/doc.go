/*
Package domain contains the core model of the tree flattener.

It is kept pure and free of I/O: nodes and conditions as parsed from the input,
the per-branch constraint algebra, rules and their canonical rendering, the
sentinel errors and the lifecycle events emitted during a traversal.

# Key Entities

  - Node: a decision (disjunction of conditions plus yes/no children) or a leaf (value).
  - Condition: an atomic feature/operator/value fact, e.g. x=4 or x!=4.
  - Constraints: the immutable per-branch state; Add detects contradictions and
    drops inequalities subsumed by an equality.
  - Rule: the constraints reaching a leaf plus the leaf value, rendered as
    "x=1 & y!=2 : 0.5".
*/
package domain
