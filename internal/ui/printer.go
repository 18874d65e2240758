// Package ui renders the tool's terminal output.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes prefixed status lines. Colours follow the capabilities of
// the writer, so piped output is plain text.
type Printer struct {
	w io.Writer

	info      lipgloss.Style
	good      lipgloss.Style
	important lipgloss.Style
	bad       lipgloss.Style
	prompt    lipgloss.Style
	title     lipgloss.Style
	muted     lipgloss.Style
}

func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:         w,
		info:      r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		good:      r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		important: r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		bad:       r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		prompt:    r.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		title:     r.NewStyle().Foreground(lipgloss.Color("10")),
		muted:     r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (p *Printer) line(style lipgloss.Style, tag, format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", style.Render(tag), fmt.Sprintf(format, args...))
}

func (p *Printer) Info(format string, args ...any)      { p.line(p.info, "[*]", format, args...) }
func (p *Printer) Good(format string, args ...any)      { p.line(p.good, "[+]", format, args...) }
func (p *Printer) Important(format string, args ...any) { p.line(p.important, "[!]", format, args...) }
func (p *Printer) Error(format string, args ...any)     { p.line(p.bad, "[-]", format, args...) }

// Item prints an indented menu entry.
func (p *Printer) Item(format string, args ...any) {
	fmt.Fprintf(p.w, "  %s %s\n", p.prompt.Render("[>]"), fmt.Sprintf(format, args...))
}

// Detail prints a continuation line under the previous status line.
func (p *Printer) Detail(format string, args ...any) {
	fmt.Fprintf(p.w, "  %s %s\n", p.muted.Render(`\-->`), fmt.Sprintf(format, args...))
}

// PromptLabel formats the text shown before reading user input.
func (p *Printer) PromptLabel(label string) string {
	return p.prompt.Render("[>]") + " " + label
}

// QuestionLabel formats a yes/no question.
func (p *Printer) QuestionLabel(question string) string {
	return p.important.Render("[!]") + " " + question + " (y/n)? "
}

// Header prints the version line shown at start-up.
func (p *Printer) Header(version, tagline string) {
	fmt.Fprintln(p.w, p.title.Render(fmt.Sprintf("htbcli - version %s | %q", version, tagline)))
}

type Row struct {
	Key   string
	Value string
}

// Summary prints rows as a two-column table between rules.
func (p *Printer) Summary(rows []Row) {
	width := 0
	for _, r := range rows {
		if w := lipgloss.Width(r.Key); w > width {
			width = w
		}
	}
	rule := strings.Repeat("─", 50)
	key := lipgloss.NewStyle().Width(width + 2)

	fmt.Fprintln(p.w, p.muted.Render(rule))
	for _, r := range rows {
		fmt.Fprintf(p.w, "%s│ %s\n", key.Render(r.Key), r.Value)
	}
	fmt.Fprintln(p.w, p.muted.Render(rule))
}
