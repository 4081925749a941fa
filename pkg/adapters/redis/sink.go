// Package redis publishes rules to a Redis list.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/treeflat/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultKey is the list rules are pushed to when no key is configured.
const DefaultKey = "treeflat:rules"

const defaultBatchSize = 256

// Sink implements ports.RuleSink by RPUSHing rule lines to a Redis list.
//
// Lines are buffered and sent in pipelined batches. In append mode batches go
// straight to the list. In replace mode they go to a staging list that Flush
// renames over the destination, so readers only ever see complete rule sets.
type Sink struct {
	client    backend.Cmdable
	key       string
	ttl       time.Duration
	batchSize int
	replace   bool

	pending   []string
	staged    int
	pushed    int
	published bool
}

// Option configures a Sink.
type Option func(*Sink)

// WithKey sets the destination list.
func WithKey(key string) Option {
	return func(s *Sink) {
		if key != "" {
			s.key = key
		}
	}
}

// WithTTL expires the list ttl after each flush (0 = no expiry).
func WithTTL(ttl time.Duration) Option {
	return func(s *Sink) {
		s.ttl = ttl
	}
}

// WithBatchSize sets how many lines are buffered before a pipeline is sent.
func WithBatchSize(n int) Option {
	return func(s *Sink) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithReplace makes Flush atomically replace the list instead of appending to it.
func WithReplace() Option {
	return func(s *Sink) {
		s.replace = true
	}
}

// NewFromClient creates a Sink on top of an existing client.
func NewFromClient(client backend.Cmdable, opts ...Option) *Sink {
	s := &Sink{
		client:    client,
		key:       DefaultKey,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the destination list.
func (s *Sink) Key() string {
	return s.key
}

// StagingKey returns the list used to accumulate rules in replace mode.
func (s *Sink) StagingKey() string {
	return s.key + ":staging"
}

// Pushed returns how many lines have reached Redis.
func (s *Sink) Pushed() int {
	return s.pushed
}

// Emit buffers the rule line, sending a batch once the buffer is full.
func (s *Sink) Emit(ctx context.Context, rule domain.Rule) error {
	s.pending = append(s.pending, rule.String())
	if len(s.pending) < s.batchSize {
		return nil
	}
	return s.push(ctx, false)
}

// Flush sends buffered lines, publishes staged ones and refreshes the TTL.
func (s *Sink) Flush(ctx context.Context) error {
	if len(s.pending) == 0 {
		if s.replace && s.published && s.staged == 0 {
			return nil
		}
		if !s.replace && (s.ttl == 0 || s.pushed == 0) {
			return nil
		}
	}
	return s.push(ctx, true)
}

func (s *Sink) push(ctx context.Context, final bool) error {
	target := s.key
	if s.replace {
		target = s.StagingKey()
	}

	values := make([]any, len(s.pending))
	for i, line := range s.pending {
		values[i] = line
	}

	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		if len(values) > 0 {
			if s.replace && s.staged == 0 {
				// Leftovers of an interrupted run.
				pipe.Del(ctx, target)
			}
			pipe.RPush(ctx, target, values...)
		}
		if final && s.replace {
			if s.staged+len(values) > 0 {
				pipe.Rename(ctx, target, s.key)
			} else {
				pipe.Del(ctx, s.key, target)
			}
		}
		if final && s.ttl > 0 {
			pipe.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis error pushing rules to %s: %w", target, err)
	}

	s.pushed += len(values)
	s.staged += len(values)
	s.pending = s.pending[:0]
	if final && s.replace {
		s.staged = 0
		s.published = true
	}
	return nil
}
