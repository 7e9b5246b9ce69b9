package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the CodmetricBot banner with a teal-to-blue gradient.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   ____          _                _        _      ", "#2dd4bf"},
		{"  / ___|___   __| |_ __ ___   ___| |_ _ __(_) ___ ", "#22d3ee"},
		{" | |   / _ \\ / _` | '_ ` _ \\ / _ \\ __| '__| |/ __|", "#38bdf8"},
		{" | |__| (_) | (_| | | | | | |  __/ |_| |  | | (__ ", "#60a5fa"},
		{"  \\____\\___/ \\__,_|_| |_| |_|\\___|\\__|_|  |_|\\___|", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  rule-based assistant "+version).Faint())
	fmt.Fprintln(w)
}
