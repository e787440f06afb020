package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// SetupColor picks the lipgloss color profile for this process. Output that
// isn't a terminal, or NO_COLOR, gets plain ASCII.
func SetupColor() {
	lipgloss.SetColorProfile(colorProfile(IsStdoutTTY(), os.Getenv("NO_COLOR") != ""))
}

func colorProfile(tty, noColor bool) termenv.Profile {
	if !tty || noColor {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}
