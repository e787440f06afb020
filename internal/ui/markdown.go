package ui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
)

// IsStdoutTTY returns true when stdout is connected to a terminal.
func IsStdoutTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// RenderMarkdown renders markdown for terminal output at the default width.
// Returns the original string on any error.
func RenderMarkdown(md string) string {
	return RenderMarkdownWidth(md, 100)
}

// RenderMarkdownWidth renders markdown word-wrapped to width columns. Outside
// a terminal the input is returned unchanged.
func RenderMarkdownWidth(md string, width int) string {
	if !IsStdoutTTY() {
		return md
	}
	return renderMarkdown(md, width, glamour.WithAutoStyle())
}

func renderMarkdown(md string, width int, style glamour.TermRendererOption) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
