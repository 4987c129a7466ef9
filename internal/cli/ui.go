package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal colors (ANSI 256).
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorCmd    = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	// StyleHighlight marks the selected bar and the listen address.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	// StyleDim is used for hints, separators and axis text.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)
	// StyleValue renders paths and tooltip values.
	StyleValue = lipgloss.NewStyle().Foreground(colorText)
	// StyleWarning renders empty-chart notices.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleOK      = lipgloss.NewStyle().Foreground(colorOK)
	styleFail    = lipgloss.NewStyle().Foreground(colorFail)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand = lipgloss.NewStyle().Foreground(colorCmd)
)

const (
	markOK     = "✓"
	markFail   = "✗"
	markInfo   = "›"
	markFile   = "→"
	iconCached = "cached"
	iconFresh  = "fresh"
)

// report writes human-facing status lines. Chart data never goes through
// it, so piping a command's stdout stays clean.
type report struct{ w io.Writer }

func (c *CLI) report() report { return report{w: c.status} }

func (r report) line(mark lipgloss.Style, icon, format string, args ...any) {
	fmt.Fprintln(r.w, mark.Render(icon)+" "+fmt.Sprintf(format, args...))
}

func (r report) success(format string, args ...any) { r.line(styleOK, markOK, format, args...) }
func (r report) fail(format string, args ...any)    { r.line(styleFail, markFail, format, args...) }
func (r report) info(format string, args ...any)    { r.line(styleMuted, markInfo, format, args...) }

// detail prints an indented, dimmed line under the previous status.
func (r report) detail(format string, args ...any) {
	fmt.Fprintln(r.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// files lists written outputs, one per line.
func (r report) files(paths ...string) {
	for _, p := range paths {
		fmt.Fprintln(r.w, "  "+StyleDim.Render(markFile)+" "+StyleValue.Render(p))
	}
}

// stats prints the chart size and whether it came from the cache.
func (r report) stats(rows, columns int, cached bool) {
	fmt.Fprintln(r.w, statsLine(rows, columns, cached))
}

// next suggests a follow-up command after a blank line.
func (r report) next(description, cmd string) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func statsLine(rows, columns int, cached bool) string {
	var parts []string
	if rows > 0 {
		parts = append(parts, fmt.Sprintf("%d rows", rows))
	}
	if columns > 0 {
		parts = append(parts, fmt.Sprintf("%d bars", columns))
	}
	status := styleMuted.Render(iconFresh)
	if cached {
		status = styleOK.Render(iconCached)
	}
	parts = append(parts, status)
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}
