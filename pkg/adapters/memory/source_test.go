package memory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/treeflat/pkg/adapters/memory"
	"github.com/aretw0/treeflat/pkg/domain"
	"github.com/aretw0/treeflat/pkg/ports"
	contract "github.com/aretw0/treeflat/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_Contract(t *testing.T) {
	contract.NodeSourceContractTest(t, func(t *testing.T, lines []string) ports.NodeSource {
		return memory.NewSource(lines)
	})
}

func TestFromText_CRLF(t *testing.T) {
	src := memory.FromText(strings.Join(contract.Fixture[:7], "\r\n"))

	node, err := src.GetNode(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []domain.Condition{domain.Neq("y", "a")}, node.Conditions)
	assert.Equal(t, domain.NodeID(10), node.No)
}

func TestSource_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := memory.NewSource(contract.Fixture).GetNode(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollector_Contract(t *testing.T) {
	c := memory.NewCollector()
	ports.RunRuleSinkContract(t, c, func(t *testing.T) []string {
		return c.Lines()
	})
}
