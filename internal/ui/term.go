package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Created blocks: green
	colorCreated = color.New(color.FgGreen)

	// Moved or resized blocks: yellow
	colorUpdated = color.New(color.FgYellow)

	// Deleted blocks: red
	colorDeleted = color.New(color.FgRed)

	// Timed blocks: bold cyan
	colorTimed = color.New(color.FgCyan, color.Bold)

	// All-day events: magenta
	colorAllDay = color.New(color.FgMagenta)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatCreated(s string) string {
	return colorCreated.Sprint(s)
}

func formatUpdated(s string) string {
	return colorUpdated.Sprint(s)
}

func formatDeleted(s string) string {
	return colorDeleted.Sprint(s)
}

func formatTimed(s string) string {
	return colorTimed.Sprint(s)
}

func formatAllDay(s string) string {
	return colorAllDay.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
