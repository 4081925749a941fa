package ports

import (
	"context"
	"errors"

	"github.com/aretw0/treeflat/pkg/domain"
)

// RuleSink receives every rule discovered by a traversal, in emission order.
type RuleSink interface {
	// Emit hands over one completed rule.
	Emit(ctx context.Context, rule domain.Rule) error

	// Flush pushes any buffered rules to the underlying medium.
	Flush(ctx context.Context) error
}

// MultiSink fans rules out to several sinks, in order.
type MultiSink []RuleSink

// Emit forwards the rule to every sink, stopping at the first failure.
func (m MultiSink) Emit(ctx context.Context, rule domain.Rule) error {
	for _, s := range m {
		if err := s.Emit(ctx, rule); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes every sink and joins their errors.
func (m MultiSink) Flush(ctx context.Context) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Flush(ctx))
	}
	return errors.Join(errs...)
}
