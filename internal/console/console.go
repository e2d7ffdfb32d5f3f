// Package console prints the tool's colored status lines. Colors are only
// emitted when the underlying writer is a terminal.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Width is the column width of headers and banners.
const Width = 80

// Printer writes styled status lines to a single writer.
type Printer struct {
	w io.Writer

	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	info   lipgloss.Style
	rule   lipgloss.Style
	title  lipgloss.Style
	banner lipgloss.Style
}

// New creates a Printer for w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		ok:     r.NewStyle().Foreground(lipgloss.Color("10")),
		err:    r.NewStyle().Foreground(lipgloss.Color("9")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("11")),
		info:   r.NewStyle().Foreground(lipgloss.Color("14")),
		rule:   r.NewStyle().Foreground(lipgloss.Color("12")),
		title:  r.NewStyle().Foreground(lipgloss.Color("14")).Bold(true).Width(Width).Align(lipgloss.Center),
		banner: r.NewStyle().Foreground(lipgloss.Color("14")).Width(Width - 2).Align(lipgloss.Center),
	}
}

// Writer returns the underlying writer for unstyled output.
func (p *Printer) Writer() io.Writer {
	return p.w
}

func (p *Printer) Success(format string, args ...any) {
	p.line(p.ok, "[OK]   ", format, args...)
}

func (p *Printer) Error(format string, args ...any) {
	p.line(p.err, "[ERR]  ", format, args...)
}

func (p *Printer) Warn(format string, args ...any) {
	p.line(p.warn, "[WARN] ", format, args...)
}

func (p *Printer) Info(format string, args ...any) {
	p.line(p.info, "[INFO] ", format, args...)
}

// Plain writes an unstyled line.
func (p *Printer) Plain(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Header prints a section title between two horizontal rules.
func (p *Printer) Header(title string) {
	bar := strings.Repeat("═", Width)
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.rule.Render(bar))
	fmt.Fprintln(p.w, p.title.Render(title))
	fmt.Fprintln(p.w, p.rule.Render(bar))
}

// Banner prints the boxed start-of-run banner.
func (p *Printer) Banner(lines ...string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.rule.Render("╔"+strings.Repeat("═", Width-2)+"╗"))
	for _, l := range lines {
		fmt.Fprintln(p.w, p.rule.Render("║")+p.banner.Render(l)+p.rule.Render("║"))
	}
	fmt.Fprintln(p.w, p.rule.Render("╚"+strings.Repeat("═", Width-2)+"╝"))
}

// Numbered prints items as an indented 1-based list.
func (p *Printer) Numbered(items []string) {
	for i, item := range items {
		fmt.Fprintf(p.w, "  %d. %s\n", i+1, item)
	}
}

func (p *Printer) line(s lipgloss.Style, prefix, format string, args ...any) {
	fmt.Fprintln(p.w, s.Render(prefix+fmt.Sprintf(format, args...)))
}
