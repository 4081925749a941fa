package observability

import (
	"context"
	"time"

	"github.com/aretw0/treeflat/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "treeflat"

// Metrics collects traversal counters.
type Metrics struct {
	registry *prometheus.Registry

	nodeVisits  *prometheus.CounterVec
	pruned      *prometheus.CounterVec
	rules       prometheus.Counter
	depth       prometheus.Histogram
	runs        *prometheus.CounterVec
	runDuration prometheus.Histogram
}

// NewMetrics creates and registers the treeflat collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		nodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "node_visits_total",
				Help:      "Total number of nodes fetched during traversal",
			},
			[]string{"kind"},
		),
		pruned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "branches_pruned_total",
				Help:      "Total number of branches discarded because of a contradiction",
			},
			[]string{"branch"},
		),
		rules: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rules_emitted_total",
			Help:      "Total number of rules written to sinks",
		}),
		depth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "visit_depth",
			Help:      "Depth of visited nodes, root being 0",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of flatten runs by result",
			},
			[]string{"result"},
		),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of flatten runs",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(m.nodeVisits, m.pruned, m.rules, m.depth, m.runs, m.runDuration)
	return m
}

// Registry exposes the underlying registry (for promhttp or textfile export).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeVisit: func(_ context.Context, e *domain.NodeEvent) {
			m.nodeVisits.WithLabelValues(string(e.NodeKind)).Inc()
			m.depth.Observe(float64(e.Depth))
		},
		OnBranchPruned: func(_ context.Context, e *domain.PruneEvent) {
			m.pruned.WithLabelValues(string(e.Branch)).Inc()
		},
		OnRuleEmitted: func(_ context.Context, _ *domain.RuleEvent) {
			m.rules.Inc()
		},
	}
}

// ObserveRun records the outcome of a whole run.
func (m *Metrics) ObserveRun(elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.runs.WithLabelValues(result).Inc()
	m.runDuration.Observe(elapsed.Seconds())
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
