package treeflat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/aretw0/treeflat/internal/runtime"
	"github.com/aretw0/treeflat/pkg/adapters/file"
	"github.com/aretw0/treeflat/pkg/adapters/memory"
	"github.com/aretw0/treeflat/pkg/domain"
	"github.com/aretw0/treeflat/pkg/ports"
)

// Version is the released version of treeflat.
const Version = "0.3.0"

// Lookup selects the NodeSource implementation used for files.
// Both modes produce identical output; only lookup cost differs.
type Lookup string

const (
	// LookupScan re-reads the file for every node: O(1) memory, O(N) per lookup.
	LookupScan Lookup = "scan"
	// LookupIndexed indexes id offsets once: O(ids) memory, O(1) per lookup.
	LookupIndexed Lookup = "indexed"
)

// Stats summarises a run.
type Stats = runtime.Stats

// Engine is the high-level entry point of the library.
// It wraps the internal runtime and wires sources and sinks for file-based runs.
type Engine struct {
	lookup     Lookup
	root       domain.NodeID
	visitLimit int
	hooks      domain.LifecycleHooks
	sinks      []ports.RuleSink
	logger     *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLookup selects the file lookup strategy (default: LookupScan).
func WithLookup(l Lookup) Option {
	return func(e *Engine) {
		e.lookup = l
	}
}

// WithRoot sets the entry node (default: 0).
func WithRoot(id domain.NodeID) Option {
	return func(e *Engine) {
		e.root = id
	}
}

// WithVisitLimit guards against cyclic inputs by capping node visits (0 = unlimited).
func WithVisitLimit(n int) Option {
	return func(e *Engine) {
		e.visitLimit = n
	}
}

// WithLifecycleHooks registers observability hooks. Calling it several times merges the hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithSinks adds sinks that receive every rule in addition to the primary output.
func WithSinks(sinks ...ports.RuleSink) Option {
	return func(e *Engine) {
		e.sinks = append(e.sinks, sinks...)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{lookup: LookupScan}
	return eng.apply(opts)
}

// Derive returns a copy of e with opts applied on top of its current settings.
// Hooks given to the copy are merged with the ones already registered.
func (e *Engine) Derive(opts ...Option) (*Engine, error) {
	eng := *e
	eng.sinks = slices.Clone(e.sinks)
	return eng.apply(opts)
}

func (e *Engine) apply(opts []Option) (*Engine, error) {
	for _, opt := range opts {
		opt(e)
	}

	switch e.lookup {
	case LookupScan, LookupIndexed:
	default:
		return nil, fmt.Errorf("unknown lookup mode %q (want %q or %q)", e.lookup, LookupScan, LookupIndexed)
	}
	if e.visitLimit < 0 {
		return nil, fmt.Errorf("visit limit must not be negative, got %d", e.visitLimit)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e, nil
}

// Flatten explores the tree behind source and sends every rule to sink
// (and to the sinks registered with WithSinks). Sinks are flushed only when
// the run succeeds, so buffered rules of a failed run are never published.
func (e *Engine) Flatten(ctx context.Context, source ports.NodeSource, sink ports.RuleSink) (Stats, error) {
	all := append(ports.MultiSink{sink}, e.sinks...)

	rt := runtime.NewEngine(source,
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithRoot(e.root),
		runtime.WithVisitLimit(e.visitLimit),
	)

	stats, err := rt.Run(ctx, all)
	if err != nil {
		return stats, err
	}
	if err := all.Flush(ctx); err != nil {
		return stats, fmt.Errorf("failed to flush rules: %w", err)
	}
	return stats, nil
}

// FlattenText flattens a tree held in memory and returns its rule lines.
// opts are applied to a derived engine for this call only.
func (e *Engine) FlattenText(ctx context.Context, text string, opts ...Option) ([]string, Stats, error) {
	eng := e
	if len(opts) > 0 {
		var err error
		if eng, err = e.Derive(opts...); err != nil {
			return nil, Stats{}, err
		}
	}

	collector := memory.NewCollector()
	stats, err := eng.Flatten(ctx, memory.FromText(text), collector)
	if err != nil {
		return nil, stats, err
	}
	return collector.Lines(), stats, nil
}

// OpenSource builds the file NodeSource selected by WithLookup.
// The returned close function must be called once the source is no longer needed.
func (e *Engine) OpenSource(ctx context.Context, path string) (ports.NodeSource, func() error, error) {
	if e.lookup == LookupIndexed {
		idx, err := file.NewIndexed(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		e.logger.Debug("tree indexed", "path", path, "ids", idx.Len())
		return idx, idx.Close, nil
	}

	scanner, err := file.NewScanner(path)
	if err != nil {
		return nil, nil, err
	}
	return scanner, func() error { return nil }, nil
}

// Process flattens the tree file at inputPath into outputPath, one rule per line.
// The output file is replaced only when the whole run succeeds.
func (e *Engine) Process(ctx context.Context, inputPath, outputPath string) (stats Stats, err error) {
	e.logger.Info("flattening tree", "input", inputPath, "output", outputPath, "lookup", e.lookup)

	source, closeSource, err := e.OpenSource(ctx, inputPath)
	if err != nil {
		return Stats{}, err
	}
	defer func() {
		err = errors.Join(err, closeSource())
	}()

	out, err := file.Create(outputPath)
	if err != nil {
		return Stats{}, err
	}

	stats, err = e.Flatten(ctx, source, out)
	if err != nil {
		return stats, errors.Join(err, out.Abort())
	}
	return stats, out.Commit(ctx)
}
