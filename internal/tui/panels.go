package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rnwolfe/deck/internal/habit"
	"github.com/rnwolfe/deck/internal/streak"
	"github.com/rnwolfe/deck/internal/ui"
	"github.com/rnwolfe/deck/internal/widget"
)

// --- Panel renderers (pure functions of their inputs) ---

// renderHabitsPanel renders the habit list with today's marks and streaks.
// cursor < 0 hides the selection pointer.
func renderHabitsPanel(habits []habit.Summary, cursor, width int) string {
	var b strings.Builder

	done := 0
	for _, h := range habits {
		if h.DoneToday() {
			done++
		}
	}
	count := ui.Muted.Render(fmt.Sprintf(" %d/%d today", done, len(habits)))
	b.WriteString(ui.Title.Render(ui.IconHabit+" Habits") + count + "\n\n")

	if len(habits) == 0 {
		b.WriteString(ui.Muted.Render("No habits yet. Add one with `deck habit add <name>`.") + "\n")
		return b.String()
	}

	nameW := width - 28
	if nameW < 8 {
		nameW = 8
	}
	for i, h := range habits {
		pointer := "  "
		name := truncate(h.Habit.Name, nameW)
		if i == cursor {
			pointer = ui.Accent.Render(ui.IconArrow + " ")
			name = ui.Accent.Render(name)
		}
		name = lipgloss.NewStyle().Width(nameW).Render(name)
		b.WriteString(fmt.Sprintf("%s%s %s %s  %s\n",
			pointer, ui.CheckMark(h.DoneToday()), name, ui.FormatStreak(h.Streak), ui.FormatBest(h.Streak)))
	}
	return b.String()
}

// renderWidget renders a single grid cell's content for kind w.Kind.
func renderWidget(w widget.Widget, data DashData, width int) string {
	var body string
	switch w.Kind {
	case widget.KindHabits:
		body = renderHabitsSummary(data.Habits)
	case widget.KindNotes:
		body = renderNotes(w.Config["body"], width)
	case widget.KindQuests:
		body = renderQuests(w.Config["items"])
	case widget.KindFinance:
		body = renderFinance(w.Config)
	case widget.KindCalendar:
		body = renderCalendar(data.Now, w.Config["events"])
	case widget.KindGraph:
		body = renderGraph(w, data.Series[w.ID])
	default:
		body = ui.Muted.Render("unknown widget kind " + string(w.Kind))
	}
	title := ui.Title.Render(widgetIcon(w.Kind) + " " + w.DisplayTitle())
	return title + "\n\n" + strings.TrimRight(body, "\n")
}

func widgetIcon(k widget.Kind) string {
	switch k {
	case widget.KindHabits:
		return ui.IconHabit
	case widget.KindNotes:
		return ui.IconNote
	case widget.KindQuests:
		return ui.IconQuest
	case widget.KindFinance:
		return ui.IconCoin
	case widget.KindCalendar:
		return ui.IconCalendar
	case widget.KindGraph:
		return ui.IconGraph
	}
	return ui.IconWidget
}

func renderHabitsSummary(habits []habit.Summary) string {
	if len(habits) == 0 {
		return ui.Muted.Render("No habits tracked.")
	}
	done, atRisk := 0, 0
	var best habit.Summary
	for _, h := range habits {
		if h.DoneToday() {
			done++
		}
		if h.Streak.AtRisk() {
			atRisk++
		}
		if h.Streak.Current > best.Streak.Current {
			best = h
		}
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %d of %d done today\n", ui.IconDone, done, len(habits)))
	if atRisk > 0 {
		b.WriteString(ui.Warning.Render(fmt.Sprintf("%s %d at risk", ui.IconRisk, atRisk)) + "\n")
	}
	if best.Streak.Current > 0 {
		b.WriteString(fmt.Sprintf("%s best: %s (%d)\n", ui.IconFire, best.Habit.Name, best.Streak.Current))
	}
	return b.String()
}

func renderNotes(body string, width int) string {
	if strings.TrimSpace(body) == "" {
		return ui.Muted.Render("Empty. Set text with `deck widget set <id> body \"...\"`.")
	}
	return strings.Trim(ui.RenderMarkdownWidth(body, width), "\n")
}

// renderQuests renders a ";"-separated checklist. Items starting with "x "
// are done.
func renderQuests(items string) string {
	list := splitList(items)
	if len(list) == 0 {
		return ui.Muted.Render("No quests. Set `items` to \"first; x finished; ...\".")
	}
	var b strings.Builder
	done := 0
	for _, it := range list {
		if rest, ok := strings.CutPrefix(it, "x "); ok {
			done++
			b.WriteString(ui.Success.Render("☑ ") + ui.Muted.Render(rest) + "\n")
			continue
		}
		b.WriteString("☐ " + it + "\n")
	}
	b.WriteString(ui.Muted.Render(fmt.Sprintf("%d/%d complete", done, len(list))) + "\n")
	return b.String()
}

// renderFinance lists the widget's figures as configured. When both "spent"
// and "budget" are numbers, a usage bar is added.
func renderFinance(cfg map[string]string) string {
	if len(cfg) == 0 {
		return ui.Muted.Render("No figures. Try `deck widget set <id> budget 500`.")
	}
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(ui.KeyStyle.Render(fmt.Sprintf("%-10s", k)) + " " + cfg[k] + "\n")
	}
	spent, err1 := strconv.ParseFloat(cfg["spent"], 64)
	budget, err2 := strconv.ParseFloat(cfg["budget"], 64)
	if err1 == nil && err2 == nil && budget > 0 {
		b.WriteString(usageBar(spent/budget, 20) + "\n")
	}
	return b.String()
}

func usageBar(frac float64, width int) string {
	pct := int(frac*100 + 0.5)
	filled := int(frac*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	style := ui.Success
	if frac > 1 {
		style = ui.Error
	} else if frac > 0.8 {
		style = ui.Warning
	}
	bar := style.Render(strings.Repeat("█", filled)) + ui.Muted.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %d%%", bar, pct)
}

// renderCalendar renders the month containing now and upcoming events from a
// ";"-separated list of "YYYY-MM-DD text" entries.
func renderCalendar(now time.Time, events string) string {
	var b strings.Builder
	b.WriteString(ui.Subtitle.Render(now.Format("January 2006")) + "\n")
	b.WriteString(ui.Muted.Render("Mo Tu We Th Fr Sa Su") + "\n")

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	offset := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("   ", offset))
	days := first.AddDate(0, 1, -1).Day()
	for d := 1; d <= days; d++ {
		cell := fmt.Sprintf("%2d", d)
		if d == now.Day() {
			cell = ui.Accent.Reverse(true).Render(cell)
		}
		b.WriteString(cell)
		if (offset+d)%7 == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	b.WriteString("\n")

	upcoming := upcomingEvents(now, events, 5)
	if len(upcoming) > 0 {
		b.WriteString("\n")
		for _, ev := range upcoming {
			b.WriteString(fmt.Sprintf("%s %s\n", ui.KeyStyle.Render(ev.day.Format("Jan 02")), ev.text))
		}
	}
	return b.String()
}

type event struct {
	day  time.Time
	text string
}

// upcomingEvents returns events on or after today, soonest first. Entries
// without a valid leading date are skipped.
func upcomingEvents(now time.Time, events string, limit int) []event {
	cal := streak.LocalCalendar{Location: now.Location()}
	var out []event
	for _, item := range splitList(events) {
		dayStr, text, _ := strings.Cut(item, " ")
		day, err := streak.ParseDay(dayStr, now.Location())
		if err != nil || cal.DaysBetween(now, day) < 0 {
			continue
		}
		out = append(out, event{day: day, text: strings.TrimSpace(text)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].day.Before(out[j].day) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// renderGraph draws a sparkline of daily check-ins.
func renderGraph(w widget.Widget, series []int) string {
	if w.Config["habit"] == "" {
		return ui.Muted.Render("Point me at a habit: `deck widget set <id> habit <name>`.")
	}
	if series == nil {
		return ui.Muted.Render("Habit " + strconv.Quote(w.Config["habit"]) + " not found.")
	}
	peak, total := 0, 0
	for _, n := range series {
		peak = max(peak, n)
		total += n
	}
	var line strings.Builder
	for _, n := range series {
		if n == 0 {
			line.WriteRune(' ')
			continue
		}
		idx := (n*len(sparkTicks) - 1) / peak
		line.WriteRune(sparkTicks[idx])
	}
	return fmt.Sprintf("%s\n%s\n", ui.Streak.Render(line.String()),
		ui.Muted.Render(fmt.Sprintf("%s · %d check-ins in %d days", w.Config["habit"], total, len(series))))
}

// renderHelpBar renders the keyboard shortcuts hint.
func renderHelpBar() string {
	return ui.Muted.Render("  j/k move · space check · u undo · r refresh · q quit")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)+"…") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
