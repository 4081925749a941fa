package ports

import (
	"context"
	"testing"

	"github.com/aretw0/treeflat/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRuleSinkContract runs a suite of tests to verify that a RuleSink implementation
// adheres to the defined interface contract. read returns the lines the sink has
// delivered so far (after Flush).
func RunRuleSinkContract(t *testing.T, sink RuleSink, read func(t *testing.T) []string) {
	ctx := context.Background()

	c, ok := domain.Constraints{}.AddAll([]domain.Condition{domain.Eq("x", "1"), domain.Neq("y", "2")})
	require.True(t, ok)

	rules := []domain.Rule{
		{Constraints: c, Value: 0.9},
		{Value: 0.1},
		{Constraints: c, Value: 2},
	}

	t.Run("Emit and Flush preserve order", func(t *testing.T) {
		for _, r := range rules {
			require.NoError(t, sink.Emit(ctx, r), "Emit should not return error")
		}
		require.NoError(t, sink.Flush(ctx), "Flush should not return error")

		assert.Equal(t, []string{
			"x=1 & y!=2 : 0.9",
			": 0.1",
			"x=1 & y!=2 : 2.0",
		}, read(t))
	})

	t.Run("Flush is idempotent", func(t *testing.T) {
		require.NoError(t, sink.Flush(ctx))
		assert.Len(t, read(t), len(rules))
	})
}
