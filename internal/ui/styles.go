package ui

import "fmt"

// ANSI256 color codes for diff, lint, and help output.
const (
	colorAdded   = 70  // green
	colorRemoved = 167 // red
	colorMuted   = 245 // medium gray
	colorAccent  = 74  // blue
	colorCmd     = 250 // light gray
)

var noColor bool

// RenderAdded returns s in the added (green) color.
func RenderAdded(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAdded, s)
}

// RenderRemoved returns s in the removed (red) color.
func RenderRemoved(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorRemoved, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAccent, s)
}

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorCmd, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
