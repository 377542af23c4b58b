package diagnostics

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiBold   = "\x1b[1m"
)

// Formatter renders diagnostics for the terminal.
type Formatter struct {
	out   io.Writer
	color bool
}

// NewFormatter creates a formatter writing to stdout. Color is enabled only
// when stdout is a real terminal.
func NewFormatter() *Formatter {
	color := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return &Formatter{out: os.Stdout, color: color}
}

// NewFormatterTo creates a formatter writing to w with explicit color control.
func NewFormatterTo(w io.Writer, color bool) *Formatter {
	return &Formatter{out: w, color: color}
}

func (f *Formatter) paint(code, s string) string {
	if !f.color {
		return s
	}
	return code + s + ansiReset
}

// Format prints a single diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	var label string
	switch d.Severity {
	case SeverityWarning:
		label = f.paint(ansiYellow, "warning")
	case SeverityNote:
		label = f.paint(ansiCyan, "note")
	default:
		label = f.paint(ansiRed, "error")
	}
	fmt.Fprintf(f.out, "%s: %s: %s [%s]\n", f.paint(ansiBold, d.Span.String()), label, d.Message, d.Code)
}

// FormatAll prints diagnostics sorted by source position, errors first within
// the same position.
func (f *Formatter) FormatAll(diags []Diagnostic) {
	sorted := make([]Diagnostic, len(diags))
	copy(sorted, diags)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Span, sorted[j].Span
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	for _, d := range sorted {
		f.Format(d)
	}
}

// CountErrors returns the number of error-severity diagnostics.
func CountErrors(diags []Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}
