package tui_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/treeflat/internal/presentation/tui"
	"github.com/aretw0/treeflat/internal/runtime"
	"github.com/aretw0/treeflat/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportMarkdown(t *testing.T) {
	c, ok := domain.Constraints{}.AddAll([]domain.Condition{domain.Eq("a|b", "1"), domain.Neq("y", "2")})
	require.True(t, ok)

	rules := []domain.Rule{
		{Constraints: c, Value: 0.5, Leaf: 3},
		{Value: 1, Leaf: 4},
	}
	md := tui.ReportMarkdown("tree.txt", rules, runtime.Stats{Rules: 2, Visited: 5, Pruned: 1, MaxStack: 2})

	assert.True(t, strings.HasPrefix(md, "# tree.txt\n"))
	assert.Contains(t, md, "| 1 | 3 | a\\|b=1 & y!=2 | 0.5 |")
	assert.Contains(t, md, "| 2 | 4 | _(always)_ | 1.0 |")
	assert.Contains(t, md, "**2** rules, **5** nodes visited, **1** branches pruned, max stack **2**.")
}

func TestReportMarkdown_Empty(t *testing.T) {
	md := tui.ReportMarkdown("empty", nil, runtime.Stats{Visited: 3, Pruned: 2})
	assert.Contains(t, md, "No rules")
	assert.NotContains(t, md, "| # |")
}

func TestNewRenderer(t *testing.T) {
	render := tui.NewRenderer(80)
	out, err := render("# Title\n\nsome *text*\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "text")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintSummary(&buf, runtime.Stats{Rules: 6, Visited: 9, Pruned: 2, Elapsed: 1500 * time.Microsecond}, "out.txt")

	out := buf.String()
	assert.Contains(t, out, "6 rules")
	assert.Contains(t, out, "out.txt")
	assert.Contains(t, out, "visited 9, pruned 2, 1.5ms")

	buf.Reset()
	tui.PrintSummary(&buf, runtime.Stats{}, "")
	assert.NotContains(t, buf.String(), "→")
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintError(&buf, errors.New("node 3: node not found"))
	assert.Contains(t, buf.String(), "node 3: node not found")
}

func TestTerminalDetection(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, tui.IsTerminal(&buf))
	assert.Zero(t, tui.Width(&buf))
}
