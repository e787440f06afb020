package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rnwolfe/deck/internal/habit"
	"github.com/rnwolfe/deck/internal/ui"
	"github.com/rnwolfe/deck/internal/widget"
)

type dashDataMsg DashData
type dashErrMsg struct{ err error }
type dashCheckedMsg struct {
	result CheckResult
	undo   bool
}

// DashModel is the Bubbletea model for the deck dashboard.
type DashModel struct {
	src     Source
	now     func() time.Time
	data    DashData
	cursor  int
	status  string
	width   int
	height  int
	loading bool
	err     error
}

// NewDashModel creates a dashboard reading from src.
func NewDashModel(src Source) *DashModel {
	return &DashModel{
		src:     src,
		now:     time.Now,
		width:   80,
		height:  24,
		loading: true,
	}
}

// RunDash runs the dashboard until the user quits.
func RunDash(src Source) error {
	prog := tea.NewProgram(NewDashModel(src), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

// --- Bubbletea model interface ---

func (m *DashModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *DashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dashDataMsg:
		m.data = DashData(msg)
		m.loading = false
		m.err = nil
		if m.cursor >= len(m.data.Habits) {
			m.cursor = max(len(m.data.Habits)-1, 0)
		}
		return m, nil

	case dashErrMsg:
		m.err = msg.err
		m.loading = false
		return m, nil

	case dashCheckedMsg:
		m.status = checkStatus(msg)
		return m, m.loadData()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *DashModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.data.Habits)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case " ", "space", "x":
		if h, ok := m.selected(); ok {
			if h.DoneToday() {
				m.status = h.Habit.Name + " is already checked today"
				return m, nil
			}
			return m, m.check(h.Habit.ID)
		}
	case "u":
		if h, ok := m.selected(); ok && h.DoneToday() {
			return m, m.uncheck(h.Habit.ID, h.Habit.Name)
		}
	case "r":
		m.loading = true
		m.status = ""
		return m, m.loadData()
	}
	return m, nil
}

func (m *DashModel) View() string {
	if m.loading {
		return "\n  " + ui.Muted.Render("Loading…") + "\n"
	}
	if m.err != nil {
		return "\n  " + ui.Error.Render("Error: "+m.err.Error()) + "\n"
	}

	w := m.width - 2
	parts := []string{
		ui.ActivePanel.Width(w - 2).Render(renderHabitsPanel(m.data.Habits, m.cursor, w-4)),
	}
	if grid := m.renderGrid(w); grid != "" {
		parts = append(parts, grid)
	}
	if m.status != "" {
		parts = append(parts, "  "+ui.Info.Render(m.status))
	}
	parts = append(parts, renderHelpBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

// renderGrid lays widgets out in rows of DashData.Columns panels. Narrow
// terminals fall back to one column.
func (m *DashModel) renderGrid(width int) string {
	if len(m.data.Widgets) == 0 {
		return ""
	}
	cols := m.data.Columns
	if cols < 1 {
		cols = 1
	}
	if width/cols < 24 {
		cols = max(width/24, 1)
	}
	cellW := width/cols - 2

	var rows []string
	for _, row := range widget.Grid(m.data.Widgets, cols) {
		var cells []string
		for _, w := range row {
			if w == nil {
				continue
			}
			cells = append(cells, ui.Panel.Width(cellW).Render(renderWidget(*w, m.data, cellW-2)))
		}
		if len(cells) > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		}
	}
	return strings.Join(rows, "\n")
}

func (m *DashModel) selected() (habit.Summary, bool) {
	if m.loading || m.cursor < 0 || m.cursor >= len(m.data.Habits) {
		return habit.Summary{}, false
	}
	return m.data.Habits[m.cursor], true
}

func checkStatus(msg dashCheckedMsg) string {
	r := msg.result
	switch {
	case msg.undo:
		return "Unchecked " + r.Habit
	case r.Milestone > 0:
		return fmt.Sprintf("%s %s hit a %d-day streak!", ui.IconParty, r.Habit, r.Milestone)
	default:
		return fmt.Sprintf("%s %s checked (%d)", ui.IconOk, r.Habit, r.Current)
	}
}

// --- Commands ---

func (m *DashModel) loadData() tea.Cmd {
	now := m.now()
	return func() tea.Msg {
		data, err := m.src.Load(now)
		if err != nil {
			return dashErrMsg{err}
		}
		return dashDataMsg(data)
	}
}

func (m *DashModel) check(id int) tea.Cmd {
	now := m.now()
	return func() tea.Msg {
		res, err := m.src.Check(id, now)
		if err != nil {
			return dashErrMsg{err}
		}
		return dashCheckedMsg{result: res}
	}
}

func (m *DashModel) uncheck(id int, name string) tea.Cmd {
	now := m.now()
	return func() tea.Msg {
		if err := m.src.Uncheck(id, now); err != nil {
			return dashErrMsg{err}
		}
		return dashCheckedMsg{result: CheckResult{Habit: name}, undo: true}
	}
}
