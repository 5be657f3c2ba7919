package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habithub/internal/app"
	"github.com/julianstephens/habithub/internal/constants"
	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/stats"
	"github.com/julianstephens/habithub/internal/today"
	"github.com/julianstephens/habithub/internal/tui/components/habitlist"
	"github.com/julianstephens/habithub/internal/validation"
)

type overviewMsg struct {
	overview stats.Overview
	week     []stats.DayRate
	err      error
}

type habitStatsMsg struct {
	habit   models.Habit
	stats   stats.HabitStats
	history []stats.DayCompletion
	err     error
}

type Model struct {
	app               *app.App
	view              *today.View
	status            *statusLine
	state             constants.SessionState
	keys              KeyMap
	listKeys          habitlist.KeyMap
	help              help.Model
	habitList         habitlist.Model
	form              *huh.Form
	habitForm         *HabitForm
	overview          *overviewMsg
	selected          *habitStatsMsg
	habitToDeleteID   string
	habitToDeleteName string
	validationWarning string
	err               error
	quitting          bool
	width             int
	height            int
}

func NewModel(a *app.App) Model {
	status := &statusLine{}
	m := Model{
		app:       a,
		view:      a.Today(status),
		status:    status,
		state:     constants.StateToday,
		keys:      DefaultKeyMap(),
		listKeys:  habitlist.DefaultKeyMap(),
		help:      help.New(),
		habitList: habitlist.New(0, 0),
	}

	m.reload()
	m.updateValidationStatus()

	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateToday:
		keys = append(keys, m.listKeys.Toggle, m.listKeys.Add, m.listKeys.Stats)
	case constants.StateStats:
		keys = append(keys, m.keys.Back)
	case constants.StateConfirmDelete:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Back}

	var actions []key.Binding
	switch m.state {
	case constants.StateToday:
		actions = []key.Binding{m.listKeys.Toggle, m.listKeys.Add, m.listKeys.Delete, m.listKeys.Stats}
	case constants.StateConfirmDelete:
		actions = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return m.loadOverview()
}

// reload creates any missing logs for today and rebuilds the list
func (m *Model) reload() {
	if err := m.view.Load(); err != nil {
		m.err = err
		m.status.errorf("✗ Could not load today's habits")
		return
	}
	m.err = nil
	m.syncList()
}

func (m *Model) syncList() {
	entries := m.view.Entries()
	streaks := make(map[string]int, len(entries))
	for _, e := range entries {
		streaks[e.Habit.ID] = m.app.Stats.CurrentStreak(e.Habit)
	}
	m.habitList.SetEntries(entries, streaks)
}

// updateValidationStatus runs the consistency checks and keeps a one-line summary
func (m *Model) updateValidationStatus() {
	habits, err := m.app.Store.GetAllHabits(false)
	if err != nil {
		m.validationWarning = "⚠ Validation unavailable"
		return
	}
	logs, err := m.app.Store.GetAllHabitLogs()
	if err != nil {
		m.validationWarning = "⚠ Validation unavailable"
		return
	}

	result := validation.New().ValidateHabits(habits, logs)
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s), run 'habithub validate'", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}

func (m Model) windowDays() int {
	if m.app.Config != nil && m.app.Config.Stats.WindowDays > 0 {
		return m.app.Config.Stats.WindowDays
	}
	return constants.DefaultWindowDays
}

func (m Model) loadOverview() tea.Cmd {
	a := m.app
	window := m.windowDays()
	return func() tea.Msg {
		habits, err := a.Store.GetAllHabits(false)
		if err != nil {
			return overviewMsg{err: err}
		}
		ov, err := a.Stats.Overview(context.Background(), habits, window)
		return overviewMsg{overview: ov, week: a.Stats.WeekSummary(habits), err: err}
	}
}

func (m Model) loadHabitStats(id string) tea.Cmd {
	a := m.app
	window := m.windowDays()
	return func() tea.Msg {
		h, err := a.Store.GetHabit(id)
		if err != nil {
			return habitStatsMsg{err: err}
		}
		return habitStatsMsg{
			habit:   h,
			stats:   a.Stats.Stats(h, window),
			history: a.Stats.CompletionHistory(h, window),
		}
	}
}
