package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

var statusStyles = map[statusKind]struct {
	label string
	color text.Colors
}{
	statusInfo:  {"INFO", text.Colors{text.FgBlue}},
	statusOK:    {"OK", text.Colors{text.FgGreen}},
	statusWarn:  {"WARN", text.Colors{text.FgYellow}},
	statusError: {"ERROR", text.Colors{text.FgRed}},
}

const statusLabelWidth = 14

// statusPrinter writes "  Label:  [KIND] detail" lines and section headers,
// coloured only when out is a terminal.
type statusPrinter struct {
	out   io.Writer
	color bool
}

func newStatusPrinter(out io.Writer) *statusPrinter {
	return &statusPrinter{out: out, color: shouldColorize(out)}
}

func (p *statusPrinter) header(title string) {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", utf8.RuneCountInString(line))
	if p.color {
		line, rule = text.FgBlue.Sprint(line), text.FgBlue.Sprint(rule)
	}
	fmt.Fprintln(p.out, line)
	fmt.Fprintln(p.out, rule)
}

func (p *statusPrinter) line(label string, kind statusKind, detail string) {
	fmt.Fprintln(p.out, formatStatus(label, kind, detail, p.color))
}

func formatStatus(label string, kind statusKind, detail string, color bool) string {
	style, ok := statusStyles[kind]
	if !ok {
		style = statusStyles[statusInfo]
	}
	s := fmt.Sprintf("  %-*s [%s]", statusLabelWidth, label+":", style.label)
	if detail != "" {
		s += " " + detail
	}
	if color {
		return style.color.Sprint(s)
	}
	return s
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// truncate collapses whitespace and cuts s to n runes, ending in "...".
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if n <= 3 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
