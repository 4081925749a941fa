package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the treeflat ASCII art banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Using a subtle gradient-like color scheme (Teal/Green)
	lines := []struct{ text, color string }{
		{"  _                  __ _       _   ", "#2dd4bf"},
		{" | |_ _ __ ___  ___ / _| | __ _| |_ ", "#34d399"},
		{" | __| '__/ _ \\/ _ \\ |_| |/ _` | __|", "#4ade80"},
		{" | |_| | |  __/  __/  _| | (_| | |_ ", "#a3e635"},
		{"  \\__|_|  \\___|\\___|_| |_|\\__,_|\\__|", "#facc15"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
