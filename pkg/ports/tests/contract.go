package tests

import (
	"context"
	"testing"

	"github.com/aretw0/treeflat/pkg/domain"
	"github.com/aretw0/treeflat/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixture is the tree every NodeSource implementation is checked against.
// It mixes id order, blank lines, comments and a malformed line.
var Fixture = []string{
	"# flattened fixture",
	"2:leaf=0.1",
	"",
	"0:[x=1 ||or|| x=2] yes=1,no=3",
	"  1 : leaf = 0.9",
	"3:[ y != a ] yes=2,no=10",
	"10:leaf=-4",
	"7:garbage",
	"8:[z>1] yes=1,no=2",
}

// FixtureNodes lists the well-formed nodes of Fixture in storage order.
var FixtureNodes = []domain.Node{
	domain.NewLeaf(2, 0.1),
	domain.NewDecision(0, []domain.Condition{domain.Eq("x", "1"), domain.Eq("x", "2")}, 1, 3),
	domain.NewLeaf(1, 0.9),
	domain.NewDecision(3, []domain.Condition{domain.Neq("y", "a")}, 2, 10),
	domain.NewLeaf(10, -4),
}

// NodeSourceContractTest is a reusable test suite that verifies if an adapter complies
// with ports.NodeSource. newSource must build a source over the given lines.
func NodeSourceContractTest(t *testing.T, newSource func(t *testing.T, lines []string) ports.NodeSource) {
	t.Helper()
	ctx := context.Background()
	source := newSource(t, Fixture)

	t.Run("GetNode_Success", func(t *testing.T) {
		for _, want := range FixtureNodes {
			got, err := source.GetNode(ctx, want.ID)
			require.NoError(t, err, "unexpected error getting node %d", want.ID)
			assert.Equal(t, want, got)
		}
	})

	t.Run("GetNode_Repeatable", func(t *testing.T) {
		first, err := source.GetNode(ctx, 0)
		require.NoError(t, err)
		second, err := source.GetNode(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("GetNode_NotFound", func(t *testing.T) {
		_, err := source.GetNode(ctx, 42)
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	})

	t.Run("GetNode_Malformed", func(t *testing.T) {
		_, err := source.GetNode(ctx, 7)
		assert.ErrorIs(t, err, domain.ErrMalformedNode)

		_, err = source.GetNode(ctx, 8)
		assert.ErrorIs(t, err, domain.ErrMalformedCondition)
	})

	t.Run("Walk", func(t *testing.T) {
		lister, ok := source.(ports.NodeLister)
		if !ok {
			t.Skip("source does not implement ports.NodeLister")
		}

		var seen []domain.Node
		err := lister.Walk(ctx, func(n domain.Node) error {
			seen = append(seen, n)
			return nil
		})
		// The fixture carries malformed lines, so a full walk must fail
		// after yielding every well-formed node that precedes them.
		assert.ErrorIs(t, err, domain.ErrMalformedNode)
		assert.Equal(t, FixtureNodes, seen)

		clean := newSource(t, Fixture[:7]).(ports.NodeLister)
		seen = nil
		require.NoError(t, clean.Walk(ctx, func(n domain.Node) error {
			seen = append(seen, n)
			return nil
		}))
		assert.Equal(t, FixtureNodes, seen)
	})
}
