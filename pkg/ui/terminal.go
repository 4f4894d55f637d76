package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent  = lipgloss.Color("#4ECDC4")
	gold    = lipgloss.Color("#F8B500")
	green   = lipgloss.Color("#95E1A3")
	red     = lipgloss.Color("#FF6B6B")
	yellow  = lipgloss.Color("#FFE66D")
	dimGrey = lipgloss.Color("#6C757D")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(dimGrey).
			Italic(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(gold)

	successStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(red).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(yellow)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimGrey)
)

// Output is where the Print helpers write; tests swap it
var Output io.Writer = os.Stdout

// Banner renders the title panel shown at start-up
func Banner(version string) string {
	title := titleStyle.Render("Telegram Media Downloader")
	sub := subtitleStyle.Render("photos and videos from any chat you can read · v" + version)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, sub))
}

// PrintBanner prints the title panel
func PrintBanner(version string) {
	fmt.Fprintln(Output, Banner(version))
}

// PrintError prints an error message, with an optional detail
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(Output, errorStyle.Render("✗ "+msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(Output, errorStyle.Render("✗ "+msg))
	}
}

// PrintSuccess prints a success message
func PrintSuccess(msg string) {
	fmt.Fprintln(Output, successStyle.Render("✓ "+msg))
}

// PrintInfo prints a label/value pair
func PrintInfo(label string, value string) {
	fmt.Fprintf(Output, "%s %s\n", labelStyle.Render(label+":"), valueStyle.Render(value))
}

// PrintWarning prints a warning, with an optional detail
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(Output, warningStyle.Render("⚠ "+msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(Output, warningStyle.Render("⚠ "+msg))
	}
}

// PrintDim prints secondary text
func PrintDim(msg string) {
	fmt.Fprintln(Output, dimStyle.Render(msg))
}
