package ui

import "github.com/charmbracelet/lipgloss"

// deck's palette: ink blues, paper greys, a warm flame for streaks.
var (
	Ink    = lipgloss.Color("#7AA2F7")
	Sky    = lipgloss.Color("#89DDFF")
	Flame  = lipgloss.Color("#FF9E64")
	Paper  = lipgloss.Color("#C0CAF5")
	Moss   = lipgloss.Color("#9ECE6A")
	Berry  = lipgloss.Color("#F7768E")
	Slate  = lipgloss.Color("#565F89")
	Bright = lipgloss.Color("#FFFFFF")

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Ink)

	Subtitle = lipgloss.NewStyle().
			Foreground(Sky)

	Success = lipgloss.NewStyle().
		Foreground(Moss)

	Error = lipgloss.NewStyle().
		Foreground(Berry)

	Warning = lipgloss.NewStyle().
		Foreground(Flame)

	Info = lipgloss.NewStyle().
		Foreground(Sky)

	Muted = lipgloss.NewStyle().
		Foreground(Slate)

	Accent = lipgloss.NewStyle().
		Foreground(Ink).
		Bold(true)

	Streak = lipgloss.NewStyle().
		Foreground(Flame).
		Bold(true)

	Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Slate).
		Padding(0, 1)

	ActivePanel = Panel.
			BorderForeground(Ink)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Sky).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Paper)
)

const (
	IconDeck     = "🂠 "
	IconHabit    = "◆"
	IconWidget   = "▦"
	IconDone     = "✅"
	IconFire     = "🔥"
	IconRisk     = "⏳"
	IconParty    = "🎉"
	IconVault    = "🔑"
	IconCalendar = "📅"
	IconNote     = "📝"
	IconGraph    = "📈"
	IconQuest    = "🗺 "
	IconCoin     = "🪙"
	IconWarn     = "⚠️ "
	IconError    = "✗ "
	IconOk       = "✓ "
	IconArrow    = "→"
	IconDot      = "·"
)

// Greet returns the summary header line.
func Greet(name string) string {
	if name == "" {
		return IconDeck + "Your deck"
	}
	return IconDeck + name + "'s deck"
}
