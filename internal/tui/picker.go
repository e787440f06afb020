package tui

import (
	"fmt"
	"os"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/rnwolfe/deck/internal/ui"
)

// Choice is one row in a Picker.
type Choice struct {
	// Key identifies the choice to the caller, e.g. a habit ID.
	Key    string
	Label  string
	Detail string
}

// Picker is a fuzzy-filtered single-choice list.
type Picker struct {
	title   string
	choices []Choice
	shown   []Choice
	query   string
	cursor  int
	height  int

	chosen   *Choice
	canceled bool
}

// NewPicker creates a picker over choices.
func NewPicker(title string, choices []Choice) *Picker {
	p := &Picker{title: title, choices: choices, height: 10}
	p.filter()
	return p
}

// Pick shows a picker and returns the chosen item, or nil if the user
// cancelled.
func Pick(title string, choices []Choice) (*Choice, error) {
	final, err := tea.NewProgram(NewPicker(title, choices)).Run()
	if err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	p := final.(*Picker)
	if p.canceled {
		return nil, nil
	}
	return p.chosen, nil
}

// IsTTY returns true when stdin is connected to a terminal.
func IsTTY() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func (p *Picker) Init() tea.Cmd { return nil }

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "ctrl+c", "esc":
		p.canceled = true
		return p, tea.Quit
	case "enter":
		if len(p.shown) > 0 {
			c := p.shown[p.cursor]
			p.chosen = &c
		}
		return p, tea.Quit
	case "up", "ctrl+p":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "ctrl+n":
		if p.cursor < len(p.shown)-1 {
			p.cursor++
		}
	case "backspace":
		if r := []rune(p.query); len(r) > 0 {
			p.query = string(r[:len(r)-1])
			p.filter()
		}
	default:
		if key.Type == tea.KeyRunes {
			p.query += string(key.Runes)
			p.filter()
		}
	}
	return p, nil
}

func (p *Picker) View() string {
	var b strings.Builder
	if p.title != "" {
		b.WriteString("  " + ui.Title.Render(p.title) + "\n\n")
	}
	b.WriteString("  " + ui.Accent.Render("> ") + p.query + ui.Accent.Render("▎") + "\n\n")

	if len(p.shown) == 0 {
		b.WriteString("  " + ui.Muted.Render("No matches") + "\n")
	}
	start := 0
	if p.cursor >= p.height {
		start = p.cursor - p.height + 1
	}
	for i := start; i < len(p.shown) && i < start+p.height; i++ {
		c := p.shown[i]
		pointer, label := "  ", c.Label
		if i == p.cursor {
			pointer, label = ui.Accent.Render(ui.IconArrow+" "), ui.Accent.Render(label)
		}
		line := "  " + pointer + label
		if c.Detail != "" {
			line += "  " + ui.Muted.Render(c.Detail)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + ui.Muted.Render(fmt.Sprintf("  %d/%d · ↑↓ move · enter select · esc cancel", len(p.shown), len(p.choices))) + "\n")
	return b.String()
}

// filter narrows the list to fuzzy matches of the query, best first.
func (p *Picker) filter() {
	type hit struct {
		c     Choice
		score int
	}
	var hits []hit
	for _, c := range p.choices {
		if score, ok := fuzzyScore(p.query, c.Label); ok {
			hits = append(hits, hit{c, score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	p.shown = p.shown[:0]
	for _, h := range hits {
		p.shown = append(p.shown, h.c)
	}
	p.cursor = 0
}
