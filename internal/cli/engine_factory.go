package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/treeflat"
	"github.com/aretw0/treeflat/internal/config"
	"github.com/aretw0/treeflat/pkg/domain"
	"github.com/aretw0/treeflat/pkg/observability"
)

// createEngine initializes a treeflat engine from the resolved configuration.
func createEngine(cfg config.Config, logger *slog.Logger, extra ...treeflat.Option) (*treeflat.Engine, error) {
	engineOpts := []treeflat.Option{
		treeflat.WithLogger(logger),
		treeflat.WithLookup(treeflat.Lookup(cfg.Lookup)),
		treeflat.WithRoot(domain.NodeID(cfg.Root)),
		treeflat.WithVisitLimit(cfg.VisitLimit),
	}
	engineOpts = append(engineOpts, extra...)

	engine, err := treeflat.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// observedEngine records one run metric per FlattenText call.
type observedEngine struct {
	*treeflat.Engine
	metrics *observability.Metrics
}

func (o observedEngine) FlattenText(ctx context.Context, text string, opts ...treeflat.Option) ([]string, treeflat.Stats, error) {
	lines, stats, err := o.Engine.FlattenText(ctx, text, opts...)
	o.metrics.ObserveRun(stats.Elapsed, err)
	return lines, stats, err
}
