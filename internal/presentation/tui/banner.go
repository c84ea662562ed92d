package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the program name and version, coloured when the terminal supports it.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	name := termenv.String("interpro2go").Foreground(p.Color("#818cf8")).Bold()
	ver := termenv.String("v" + strings.TrimSpace(version)).Foreground(p.Color("#a78bfa"))
	fmt.Fprintf(w, "%s %s\n", name, ver)
}

// Status writes a single coloured status line: a check mark on success, a cross otherwise.
func Status(w io.Writer, ok bool, msg string) {
	p := termenv.ColorProfile()
	mark := termenv.String("✓").Foreground(p.Color("#22c55e"))
	if !ok {
		mark = termenv.String("✗").Foreground(p.Color("#ef4444"))
	}
	fmt.Fprintf(w, "%s %s\n", mark, msg)
}
