package observability_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/treeflat/internal/runtime"
	"github.com/aretw0/treeflat/pkg/adapters/memory"
	"github.com/aretw0/treeflat/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prunedTree = `
0:[x=1] yes=1,no=2
1:[x=2] yes=3,no=4
2:leaf=0
3:leaf=1
4:leaf=2`

func run(t *testing.T, m *observability.Metrics) {
	t.Helper()
	eng := runtime.NewEngine(memory.FromText(prunedTree), runtime.WithLifecycleHooks(m.Hooks()))
	stats, err := eng.Run(context.Background(), memory.NewCollector())
	require.NoError(t, err)
	m.ObserveRun(stats.Elapsed, nil)
}

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	run(t, m)

	expected := `
# HELP treeflat_node_visits_total Total number of nodes fetched during traversal
# TYPE treeflat_node_visits_total counter
treeflat_node_visits_total{kind="decision"} 2
treeflat_node_visits_total{kind="leaf"} 2
# HELP treeflat_branches_pruned_total Total number of branches discarded because of a contradiction
# TYPE treeflat_branches_pruned_total counter
treeflat_branches_pruned_total{branch="yes"} 1
# HELP treeflat_rules_emitted_total Total number of rules written to sinks
# TYPE treeflat_rules_emitted_total counter
treeflat_rules_emitted_total 2
# HELP treeflat_runs_total Total number of flatten runs by result
# TYPE treeflat_runs_total counter
treeflat_runs_total{result="ok"} 1
`
	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"treeflat_node_visits_total",
		"treeflat_branches_pruned_total",
		"treeflat_rules_emitted_total",
		"treeflat_runs_total",
	)
	assert.NoError(t, err)
}

func TestMetrics_Isolated(t *testing.T) {
	a := observability.NewMetrics()
	b := observability.NewMetrics()
	run(t, a)
	run(t, a)
	b.ObserveRun(time.Millisecond, errors.New("boom"))

	count, err := testutil.GatherAndCount(a.Registry(), "treeflat_rules_emitted_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = testutil.GatherAndCount(b.Registry(), "treeflat_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := observability.NewMetrics()
	run(t, m)

	path := filepath.Join(t.TempDir(), "treeflat.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "treeflat_rules_emitted_total 2")
	assert.Contains(t, string(data), `treeflat_visit_depth_count 4`)
}
