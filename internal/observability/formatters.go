// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/hireflow/internal/types"
)

// boxWidth is the default width for formatted output boxes
const boxWidth = 60

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content.
// Content lines longer than the box are wrapped on word boundaries.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(wrapped, inner))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSuggestion outputs a company suggestion. source describes where it came from,
// e.g. "live" or "fallback (no_credential)".
func (p *Printer) PrintSuggestion(s types.CompanySuggestion, source string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", s.CompanyName))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", s.ContactEmail))
	sb.WriteString(fmt.Sprintf("Source:   %s\n", source))
	sb.WriteString("\n")
	sb.WriteString(s.Paragraph)

	p.printBox("Company Suggestion", sb.String())
}

// PrintExtraction outputs the fields recovered from a raw completion and, when
// extraction was incomplete, the reason.
func (p *Printer) PrintExtraction(s types.CompanySuggestion, err error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:   %s\n", orDash(s.CompanyName)))
	sb.WriteString(fmt.Sprintf("Email:     %s\n", orDash(s.ContactEmail)))
	sb.WriteString(fmt.Sprintf("Paragraph: %s\n", orDash(s.Paragraph)))
	if err != nil {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("✗ %v", err))
	} else {
		sb.WriteString("\n✓ complete")
	}

	p.printBox("Extraction Result", sb.String())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// pad right-pads s with spaces to width runes.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// wrap splits line into chunks of at most width runes, breaking at spaces when possible.
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	var out []string
	var cur []rune
	for _, word := range strings.Fields(line) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				out = append(out, string(cur))
				cur = nil
			}
			out = append(out, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			out = append(out, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}
