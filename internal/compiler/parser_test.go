package compiler_test

import (
	"errors"
	"testing"

	"github.com/aretw0/treeflat/internal/compiler"
	"github.com/aretw0/treeflat/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_ParseLine(t *testing.T) {
	parser := compiler.NewParser()

	tests := []struct {
		name string
		line string
		want domain.Node
	}{
		{
			name: "leaf",
			line: "3:leaf=0.25",
			want: domain.NewLeaf(3, 0.25),
		},
		{
			name: "leaf with spaces and exponent",
			line: "  12 :  leaf = -1.5e-3  ",
			want: domain.NewLeaf(12, -0.0015),
		},
		{
			name: "single condition decision",
			line: "0:[browser=7] yes=1,no=2",
			want: domain.NewDecision(0, []domain.Condition{domain.Eq("browser", "7")}, 1, 2),
		},
		{
			name: "disjunction keeps source order",
			line: "4:[ os != linux ||or|| x=2||or||y = 3 ] yes = 5 , no = 6",
			want: domain.NewDecision(4, []domain.Condition{
				domain.Neq("os", "linux"),
				domain.Eq("x", "2"),
				domain.Eq("y", "3"),
			}, 5, 6),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, ok, err := parser.ParseLine(tt.line)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.want, node)
		})
	}
}

func TestParser_ParseLine_Skipped(t *testing.T) {
	parser := compiler.NewParser()

	for _, line := range []string{"", "   ", "# a comment", "header line", "x:leaf=1"} {
		_, ok, err := parser.ParseLine(line)
		assert.NoError(t, err, line)
		assert.False(t, ok, line)
	}
}

func TestParser_ParseLine_Malformed(t *testing.T) {
	parser := compiler.NewParser()

	tests := []struct {
		name    string
		line    string
		wantErr error
	}{
		{"unknown payload", "1:branch=3", domain.ErrMalformedNode},
		{"empty payload", "1:", domain.ErrMalformedNode},
		{"empty condition list", "1:[] yes=2,no=3", domain.ErrMalformedNode},
		{"missing no child", "1:[x=1] yes=2", domain.ErrMalformedNode},
		{"leaf without number", "1:leaf=abc", domain.ErrMalformedNode},
		{"operator missing", "1:[x>1] yes=2,no=3", domain.ErrMalformedCondition},
		{"empty disjunct", "1:[x=1 ||or|| ] yes=2,no=3", domain.ErrMalformedCondition},
		{"empty value", "1:[x=] yes=2,no=3", domain.ErrMalformedCondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := parser.ParseLine(tt.line)
			assert.True(t, ok)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var nodeErr *domain.NodeError
			require.True(t, errors.As(err, &nodeErr))
			assert.Equal(t, domain.NodeID(1), nodeErr.ID)
		})
	}
}

func TestParser_SplitConditions(t *testing.T) {
	parser := compiler.NewParser()

	conds, err := parser.SplitConditions("a=1 ||or|| b!=2 ||or|| c = x y")
	require.NoError(t, err)
	assert.Equal(t, []domain.Condition{
		domain.Eq("a", "1"),
		domain.Neq("b", "2"),
		domain.Eq("c", "x y"),
	}, conds)

	_, err = parser.SplitConditions("a=1 ||or|| b")
	var condErr *domain.ConditionError
	require.ErrorAs(t, err, &condErr)
	assert.Equal(t, "b", condErr.Fragment)
}

func TestParser_ParseCondition_NotEqualsWins(t *testing.T) {
	cond, err := compiler.NewParser().ParseCondition("a=b!=c")
	require.NoError(t, err)
	assert.Equal(t, domain.Neq("a=b", "c"), cond)
}
