/*
Package treeflat flattens a textual decision tree into an exhaustive list of
conjunctive rules, one per reachable leaf.

Each decision node holds a disjunction of equality/inequality conditions and a
yes/no pair of children. The traversal expands the YES side into one branch per
condition and the NO side into the conjunction of the negated conditions
(De Morgan), pruning every branch whose accumulated constraints contradict and
dropping inequalities once an equality fixes the same feature.

# Input

	0:[x=1 ||or|| x=2] yes=1,no=2
	1:leaf=0.9
	2:leaf=0.1

# Output

	x=1 : 0.9
	x=2 : 0.9
	x!=1 & x!=2 : 0.1

# Usage

	eng, err := treeflat.New(treeflat.WithLookup(treeflat.LookupIndexed))
	if err != nil {
		log.Fatal(err)
	}
	stats, err := eng.Process(ctx, "tree.txt", "rules.txt")

Trees are never loaded whole: nodes are looked up on demand, either by
re-scanning the file (LookupScan) or through a one-off offset index
(LookupIndexed). Output order is deterministic: at every decision the YES
branches are explored first, in condition order, then the NO branch.
*/
package treeflat
