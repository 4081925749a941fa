package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/treeflat"
	"github.com/aretw0/treeflat/internal/presentation/graph"
	"github.com/aretw0/treeflat/internal/presentation/tui"
	httpAdapter "github.com/aretw0/treeflat/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/treeflat/pkg/adapters/mcp"
	"github.com/aretw0/treeflat/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/treeflat/pkg/adapters/redis"
	"github.com/aretw0/treeflat/pkg/domain"
	"github.com/aretw0/treeflat/pkg/observability"
	"github.com/aretw0/treeflat/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Flatten writes the rules of the tree at input to output.
// Depending on the configuration the rules are also pushed to Redis and the
// run metrics are written to a Prometheus textfile.
func Flatten(ctx context.Context, opts Options, input, output string) error {
	cfg := opts.Config
	logger, err := createLogger(cfg.LogLevel, opts.Stderr)
	if err != nil {
		return err
	}

	var extra []treeflat.Option

	var metrics *observability.Metrics
	if cfg.MetricsFile != "" {
		metrics = observability.NewMetrics()
		extra = append(extra, treeflat.WithLifecycleHooks(metrics.Hooks()))
	}

	if cfg.Redis.Enabled() {
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		sink := redisAdapter.NewFromClient(client,
			redisAdapter.WithKey(cfg.Redis.Key),
			redisAdapter.WithTTL(cfg.Redis.TTL),
			redisAdapter.WithReplace(),
		)
		logger.Debug("publishing rules to redis", "addr", cfg.Redis.Addr, "key", sink.Key())
		extra = append(extra, treeflat.WithSinks(sink))
	}

	engine, err := createEngine(cfg, logger, extra...)
	if err != nil {
		return err
	}

	stats, err := engine.Process(ctx, input, output)
	if metrics != nil {
		metrics.ObserveRun(stats.Elapsed, err)
		if werr := metrics.WriteTextfile(cfg.MetricsFile); werr != nil {
			err = errors.Join(err, fmt.Errorf("failed to write metrics: %w", werr))
		}
	}
	if err != nil {
		logger.Error("flatten failed", "input", input, "error", err)
		return err
	}

	if !opts.Quiet && tui.IsTerminal(opts.Stderr) {
		tui.PrintSummary(opts.Stderr, stats, output)
	}
	return nil
}

// Graph prints the tree at input as a Mermaid flowchart.
// With trace set, the nodes reached by a traversal from the configured root are highlighted.
func Graph(ctx context.Context, opts Options, input string, trace bool) error {
	logger, err := createLogger(opts.Config.LogLevel, opts.Stderr)
	if err != nil {
		return err
	}
	engine, err := createEngine(opts.Config, logger)
	if err != nil {
		return err
	}

	source, closeSource, err := engine.OpenSource(ctx, input)
	if err != nil {
		return err
	}
	defer closeSource()

	lister, ok := source.(ports.NodeLister)
	if !ok {
		return fmt.Errorf("node source %T cannot list nodes", source)
	}
	nodes, err := graph.Collect(ctx, lister)
	if err != nil {
		return fmt.Errorf("error inspecting tree: %w", err)
	}

	var overlay *graph.GraphOverlay
	if trace {
		overlay = &graph.GraphOverlay{}
		traced, err := engine.Derive(treeflat.WithLifecycleHooks(domain.LifecycleHooks{
			OnNodeVisit: func(_ context.Context, e *domain.NodeEvent) {
				overlay.VisitedNodes = append(overlay.VisitedNodes, e.NodeID)
			},
		}))
		if err != nil {
			return err
		}
		if _, err := traced.Flatten(ctx, source, memory.NewCollector()); err != nil {
			// The partial trace is still worth drawing: it ends where the tree breaks.
			logger.Warn("trace stopped early", "error", err)
		}
	}

	_, err = fmt.Fprint(opts.Stdout, graph.GenerateMermaid(nodes, overlay))
	return err
}

// Report prints the rules of the tree at input as a markdown table, rendered
// with glamour when Stdout is a terminal.
func Report(ctx context.Context, opts Options, input string) error {
	logger, err := createLogger(opts.Config.LogLevel, opts.Stderr)
	if err != nil {
		return err
	}
	engine, err := createEngine(opts.Config, logger)
	if err != nil {
		return err
	}

	source, closeSource, err := engine.OpenSource(ctx, input)
	if err != nil {
		return err
	}
	defer closeSource()

	collector := memory.NewCollector()
	stats, err := engine.Flatten(ctx, source, collector)
	if err != nil {
		return err
	}

	md := tui.ReportMarkdown(filepath.Base(input), collector.Rules(), stats)
	if tui.IsTerminal(opts.Stdout) {
		rendered, err := tui.NewRenderer(tui.Width(opts.Stdout))(md)
		if err != nil {
			logger.Warn("markdown rendering failed, printing raw", "error", err)
		} else {
			md = rendered
		}
	}

	_, err = fmt.Fprint(opts.Stdout, md)
	return err
}

// Serve runs the HTTP API on addr until ctx is canceled.
func Serve(ctx context.Context, opts Options, addr string) error {
	logger, err := createLogger(opts.Config.LogLevel, opts.Stderr)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	engine, err := createEngine(opts.Config, logger, treeflat.WithLifecycleHooks(metrics.Hooks()))
	if err != nil {
		return err
	}

	if !opts.Quiet && tui.IsTerminal(opts.Stderr) {
		tui.PrintBanner(opts.Stderr, treeflat.Version)
	}

	handler := httpAdapter.NewHandler(observedEngine{Engine: engine, metrics: metrics}, metrics.Registry(), logger)
	return httpAdapter.ListenAndServe(ctx, addr, handler, logger)
}

// ServeMCP runs the MCP server over the given transport: "stdio" (Stdin/Stdout)
// or "sse" (HTTP on addr until ctx is canceled).
func ServeMCP(ctx context.Context, opts Options, transport, addr string) error {
	logger, err := createLogger(opts.Config.LogLevel, opts.Stderr)
	if err != nil {
		return err
	}
	engine, err := createEngine(opts.Config, logger)
	if err != nil {
		return err
	}
	srv := mcpAdapter.NewServer(engine, logger)

	switch transport {
	case "stdio":
		logger.Info("Starting treeflat MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		return srv.ServeSSE(ctx, addr, baseURL(addr))
	default:
		return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
	}
}

func baseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
