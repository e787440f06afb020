package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// status writes one icon-prefixed, styled line. Stdout is looked up per call
// so callers that swap os.Stdout still see the output.
func status(w io.Writer, style lipgloss.Style, icon, msg string) {
	fmt.Fprintln(w, style.Render(icon+msg))
}

// Ok confirms a finished action.
func Ok(msg string) { status(os.Stdout, Success, IconOk, msg) }

// Warn flags something the user should look at; the command still succeeded.
func Warn(msg string) { status(os.Stdout, Warning, IconWarn, msg) }

// Err reports a failure on stderr.
func Err(msg string) { status(os.Stderr, Error.Bold(true), IconError, msg) }

// Header prints a title with a rule sized to it.
func Header(s string) {
	fmt.Println()
	fmt.Println(Title.Render(s))
	fmt.Println(Muted.Render(strings.Repeat("─", lipgloss.Width(s)+2)))
}

// Tip prints a muted hint after a blank line.
func Tip(msg string) {
	fmt.Println()
	fmt.Println(Muted.Render("  tip: " + msg))
}

// Kv prints an aligned key/value row.
func Kv(key, value string) {
	fmt.Printf("%s %s\n", KeyStyle.Render(fmt.Sprintf("  %-12s", key)), ValueStyle.Render(value))
}
