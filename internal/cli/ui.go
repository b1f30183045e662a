package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// stdout receives all user-facing status lines. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// Palette, in ANSI 256 colors.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders chart names and headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleLink renders URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue renders paths and values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleWarning renders warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// status is a one-character marker in front of a status line.
type status struct {
	icon  string
	style lipgloss.Style
}

var (
	statusSuccess = status{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	statusError   = status{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	statusWarning = status{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	statusInfo    = status{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func (s status) print(msg string) {
	fmt.Fprintln(stdout, s.style.Render(s.icon)+" "+msg)
}

func printSuccess(format string, args ...any) {
	statusSuccess.print(fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	statusError.print(fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	statusWarning.print(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	statusInfo.print(fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written artifact path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints how many data rows a chart read, how many SVG elements
// it drew and whether the artifacts came from the cache.
func printStats(rows, nodes int, cached bool) {
	origin := lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
	if cached {
		origin = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	}
	parts := []string{
		StyleDim.Render(humanize.Comma(int64(rows)) + " rows"),
		StyleDim.Render(humanize.Comma(int64(nodes)) + " nodes"),
		origin,
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
