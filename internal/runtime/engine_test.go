package runtime_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aretw0/treeflat/internal/runtime"
	"github.com/aretw0/treeflat/pkg/adapters/memory"
	"github.com/aretw0/treeflat/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func flatten(t *testing.T, tree string, opts ...runtime.EngineOption) ([]string, runtime.Stats) {
	t.Helper()
	sink := memory.NewCollector()
	stats, err := runtime.NewEngine(memory.FromText(tree), opts...).Run(context.Background(), sink)
	require.NoError(t, err)
	return sink.Lines(), stats
}

func TestEngine_Run(t *testing.T) {
	tests := []struct {
		name string
		tree string
		want []string
	}{
		{
			name: "disjunction expands yes per condition and negates all on no",
			tree: `
0:[x=1 ||or|| x=2] yes=1,no=2
1:leaf=0.9
2:leaf=0.1`,
			want: []string{
				"x=1 : 0.9",
				"x=2 : 0.9",
				"x!=1 & x!=2 : 0.1",
			},
		},
		{
			name: "root leaf renders without constraints",
			tree: "0:leaf=0.5",
			want: []string{": 0.5"},
		},
		{
			name: "conflicting equality prunes the branch",
			tree: `
0:[x=1] yes=1,no=2
1:[x=2] yes=3,no=4
2:leaf=0
3:leaf=1
4:leaf=2`,
			want: []string{
				"x=1 : 2.0",
				"x!=1 : 0.0",
			},
		},
		{
			name: "equality on an excluded value is rejected",
			tree: `
0:[x!=3] yes=1,no=2
1:[x=3] yes=3,no=4
2:leaf=0
3:leaf=1
4:leaf=2`,
			want: []string{
				"x!=3 : 2.0",
				"x=3 : 0.0",
			},
		},
		{
			name: "no branch vanishes when a negation contradicts the parent",
			tree: `
0:[x=1] yes=1,no=9
1:[y=2 ||or|| x=1] yes=3,no=4
3:leaf=1
4:leaf=2
9:leaf=9`,
			want: []string{
				"x=1 & y=2 : 1.0",
				"x=1 : 1.0",
				"x!=1 : 9.0",
			},
		},
		{
			name: "yes disjunct contradicting the parent is dropped alone",
			tree: `
0:[x=1] yes=1,no=9
1:[x=2 ||or|| y=5] yes=3,no=4
3:leaf=1
4:leaf=2
9:leaf=9`,
			want: []string{
				"x=1 & y=5 : 1.0",
				"x=1 & y!=5 : 2.0",
				"x!=1 : 9.0",
			},
		},
		{
			name: "equality erases earlier inequalities",
			tree: `
0:[os=linux ||or|| os=mac] yes=5,no=1
1:[os=bsd] yes=2,no=3
2:leaf=1
3:leaf=2
5:leaf=5`,
			want: []string{
				"os=linux : 5.0",
				"os=mac : 5.0",
				"os=bsd : 1.0",
				"os!=linux & os!=mac & os!=bsd : 2.0",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats := flatten(t, tt.tree)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want), stats.Rules)
		})
	}
}

func TestEngine_Stats(t *testing.T) {
	_, stats := flatten(t, `
0:[x=1] yes=1,no=2
1:[x=2] yes=3,no=4
2:leaf=0
4:leaf=2`)

	// 0, 1, 4, 2; node 3 is never fetched.
	assert.Equal(t, 4, stats.Visited)
	assert.Equal(t, 2, stats.Rules)
	assert.Equal(t, 1, stats.Pruned)
	assert.Equal(t, 2, stats.MaxStack)
}

func TestEngine_WithRoot(t *testing.T) {
	got, _ := flatten(t, `
0:[x=1] yes=1,no=2
1:leaf=1
2:leaf=2
7:[y=1] yes=1,no=2`, runtime.WithRoot(7))

	assert.Equal(t, []string{"y=1 : 1.0", "y!=1 : 2.0"}, got)
}

func TestEngine_Errors(t *testing.T) {
	tests := []struct {
		name    string
		tree    string
		wantErr error
	}{
		{"missing root", "1:leaf=1", domain.ErrNodeNotFound},
		{"missing child", "0:[a=1] yes=1,no=2\n1:leaf=1", domain.ErrNodeNotFound},
		{"malformed node", "0:[a=1] yes=1,no=2\n1:leaf=1\n2:leaf", domain.ErrMalformedNode},
		{"malformed condition", "0:[a=1 ||or|| b] yes=1,no=2", domain.ErrMalformedCondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runtime.NewEngine(memory.FromText(tt.tree)).Run(context.Background(), memory.NewCollector())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEngine_VisitLimit(t *testing.T) {
	cyclic := "0:[a=1] yes=0,no=1\n1:leaf=1"

	_, err := runtime.NewEngine(memory.FromText(cyclic), runtime.WithVisitLimit(50)).
		Run(context.Background(), memory.NewCollector())
	assert.ErrorIs(t, err, domain.ErrVisitLimit)
}

func TestEngine_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runtime.NewEngine(memory.FromText("0:leaf=1")).Run(ctx, memory.NewCollector())
	assert.ErrorIs(t, err, context.Canceled)
}

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Emit(ctx context.Context, rule domain.Rule) error {
	return m.Called(rule.String()).Error(0)
}

func (m *mockSink) Flush(ctx context.Context) error {
	return m.Called().Error(0)
}

func TestEngine_SinkFailureStopsRun(t *testing.T) {
	sink := new(mockSink)
	boom := errors.New("disk full")
	sink.On("Emit", "x=1 : 0.9").Return(nil).Once()
	sink.On("Emit", "x=2 : 0.9").Return(boom).Once()

	tree := "0:[x=1 ||or|| x=2] yes=1,no=2\n1:leaf=0.9\n2:leaf=0.1"
	stats, err := runtime.NewEngine(memory.FromText(tree)).Run(context.Background(), sink)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, stats.Rules)
	sink.AssertExpectations(t)
	sink.AssertNotCalled(t, "Emit", "x!=1 & x!=2 : 0.1")
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var visited []domain.NodeID
	var pruned []string
	var rules []string

	hooks := domain.LifecycleHooks{
		OnNodeVisit: func(ctx context.Context, e *domain.NodeEvent) {
			visited = append(visited, e.NodeID)
		},
		OnBranchPruned: func(ctx context.Context, e *domain.PruneEvent) {
			pruned = append(pruned, fmt.Sprintf("%d/%s/%s", e.NodeID, e.Branch, e.Condition))
		},
		OnRuleEmitted: func(ctx context.Context, e *domain.RuleEvent) {
			rules = append(rules, e.Line)
		},
	}

	flatten(t, `
0:[x=1] yes=1,no=2
1:[x=2 ||or|| x=1] yes=3,no=4
2:leaf=0
3:leaf=1
4:leaf=2`, runtime.WithLifecycleHooks(hooks))

	assert.Equal(t, []domain.NodeID{0, 1, 3, 2}, visited)
	assert.Equal(t, []string{"1/no/x!=1", "1/yes/x=2"}, pruned)
	assert.Equal(t, []string{"x=1 : 1.0", "x!=1 : 0.0"}, rules)
}

// balancedTree builds a complete tree of the given depth where every decision
// tests one of a few features against a couple of values, so that many paths
// collide and get pruned.
func balancedTree(depth int) string {
	features := []string{"a", "b", "c"}
	var sb strings.Builder
	next := 1
	var build func(id, level int)
	build = func(id, level int) {
		if level == depth {
			fmt.Fprintf(&sb, "%d:leaf=%d\n", id, id)
			return
		}
		f := features[level%len(features)]
		yes, no := next, next+1
		next += 2
		op := "="
		if level%2 == 1 {
			op = "!="
		}
		fmt.Fprintf(&sb, "%d:[%s%s%d ||or|| %s=%d] yes=%d,no=%d\n", id, f, op, level%2, f, (level+1)%2, yes, no)
		build(yes, level+1)
		build(no, level+1)
	}
	build(0, 0)
	return sb.String()
}

func TestEngine_Properties(t *testing.T) {
	tree := balancedTree(6)

	first, stats := flatten(t, tree)
	second, _ := flatten(t, tree)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second, "output must be deterministic")
	assert.Equal(t, len(first), stats.Rules)

	for _, line := range first {
		atoms, _, ok := strings.Cut(line, " : ")
		require.True(t, ok, line)

		eqs := map[string]string{}
		neqs := map[string]bool{}
		for _, atom := range strings.Split(atoms, domain.AtomSeparator) {
			if f, _, isNeq := strings.Cut(atom, "!="); isNeq {
				neqs[f] = true
				continue
			}
			f, v, _ := strings.Cut(atom, "=")
			_, dup := eqs[f]
			assert.False(t, dup, "two equalities for %s in %q", f, line)
			eqs[f] = v
		}
		for f := range eqs {
			assert.False(t, neqs[f], "equality and inequality for %s in %q", f, line)
		}
	}
}
