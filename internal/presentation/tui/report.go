package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/treeflat/internal/runtime"
	"github.com/aretw0/treeflat/pkg/domain"
	"github.com/muesli/termenv"
)

// ReportMarkdown lays rules out as a markdown table followed by run statistics.
func ReportMarkdown(title string, rules []domain.Rule, stats runtime.Stats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", escapeCell(title))

	if len(rules) == 0 {
		sb.WriteString("_No rules: every branch was pruned._\n\n")
	} else {
		sb.WriteString("| # | Leaf | Conditions | Value |\n")
		sb.WriteString("|--:|--:|---|--:|\n")
		for i, r := range rules {
			conds := domain.FormatConstraints(r.Constraints)
			if conds == "" {
				conds = "_(always)_"
			}
			fmt.Fprintf(&sb, "| %d | %d | %s | %s |\n", i+1, r.Leaf, escapeCell(conds), domain.FormatValue(r.Value))
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "**%d** rules, **%d** nodes visited, **%d** branches pruned, max stack **%d**.\n",
		stats.Rules, stats.Visited, stats.Pruned, stats.MaxStack)
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// PrintSummary writes a one-line, colored run summary to w.
func PrintSummary(w io.Writer, stats runtime.Stats, output string) {
	out := termenv.NewOutput(w)

	check := out.String("✔").Foreground(out.Color("#22c55e")).Bold()
	rules := out.String(fmt.Sprintf("%d rules", stats.Rules)).Bold()
	details := out.String(fmt.Sprintf("(visited %d, pruned %d, %s)",
		stats.Visited, stats.Pruned, stats.Elapsed.Round(time.Microsecond))).Faint()

	if output == "" {
		fmt.Fprintf(w, "%s %s %s\n", check, rules, details)
		return
	}
	fmt.Fprintf(w, "%s %s → %s %s\n", check, rules, output, details)
}

// PrintError writes a colored error line to w.
func PrintError(w io.Writer, err error) {
	out := termenv.NewOutput(w)
	fmt.Fprintf(w, "%s %v\n", out.String("✘").Foreground(out.Color("#ef4444")).Bold(), err)
}
