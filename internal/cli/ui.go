package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette, in ANSI 256 colors.
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorCmd    = lipgloss.Color("75")
	colorValue  = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

var (
	styleAccent = lipgloss.NewStyle().Foreground(colorAccent)
	styleOK     = lipgloss.NewStyle().Foreground(colorOK)
	styleWarn   = lipgloss.NewStyle().Foreground(colorWarn)
	styleFail   = lipgloss.NewStyle().Foreground(colorFail)
	styleCmd    = lipgloss.NewStyle().Foreground(colorCmd)
	styleValue  = lipgloss.NewStyle().Foreground(colorValue)
	styleLabel  = lipgloss.NewStyle().Foreground(colorLabel)
	styleMuted  = lipgloss.NewStyle().Foreground(colorMuted)
	styleKey    = styleLabel.Width(12)
)

// statusOut receives status lines. Results may go to stdout, so status
// output never does.
var statusOut io.Writer = os.Stderr

// quietStatus suppresses everything but errors and warnings (--quiet).
var quietStatus bool

// status writes one line to statusOut unless quiet is set and quietStatus
// is on.
func status(quiet bool, line string) {
	if quiet && quietStatus {
		return
	}
	fmt.Fprintln(statusOut, line)
}

func printSuccess(format string, args ...any) {
	status(true, styleOK.Render("✓")+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	status(false, styleFail.Render("✗")+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	status(false, styleWarn.Render("!")+" "+styleWarn.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	status(true, styleLabel.Render("›")+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line under the previous status line.
func printDetail(format string, args ...any) {
	status(true, "  "+styleMuted.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written file path.
func printFile(path string) {
	status(true, "  "+styleMuted.Render("→")+" "+styleValue.Render(path))
}

func printKeyValue(key, value string) {
	status(true, styleKey.Render(key)+" "+styleValue.Render(value))
}

// printStats summarizes a result on one line, e.g.
// "flowchart · svg · 12.4 KB · cached".
func printStats(kind, format string, size int, cached bool) {
	state := styleLabel.Render("fresh")
	if cached {
		state = styleOK.Render("cached")
	}
	sep := styleMuted.Render(" · ")
	parts := []string{styleMuted.Render(kind), styleMuted.Render(format), styleMuted.Render(formatBytes(size)), state}
	status(true, "  "+strings.Join(parts, sep))
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	status(true, styleMuted.Render(description+":")+" "+styleCmd.Render(cmd))
}

// printList prints items as one indented, comma-separated line.
func printList(items []string) {
	status(true, "  "+styleAccent.Render(strings.Join(items, ", ")))
}
