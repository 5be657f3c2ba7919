package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habithub/internal/today"
)

type ToggleHabitMsg struct {
	ID string
}

type AddHabitMsg struct{}

type DeleteHabitMsg struct {
	ID   string
	Name string
}

type ShowStatsMsg struct {
	ID string
}

type Item struct {
	Entry  today.Entry
	Streak int
}

func (i Item) Title() string {
	if i.Entry.Log.Completed {
		return "✓ " + i.Entry.Habit.Name
	}
	return "○ " + i.Entry.Habit.Name
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%d day target | streak %d", i.Entry.Habit.TargetDays, i.Streak)
	if i.Entry.Habit.Category != "" {
		desc += " | " + i.Entry.Habit.Category
	}
	if i.Entry.Habit.ReminderTime != "" {
		desc += " | " + i.Entry.Habit.ReminderTime
	}
	return desc
}

func (i Item) FilterValue() string { return i.Entry.Habit.Name }

type KeyMap struct {
	Toggle key.Binding
	Add    key.Binding
	Delete key.Binding
	Stats  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Stats: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "stats"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Today"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add, keys.Delete, keys.Stats}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add, keys.Delete, keys.Stats}
	}

	return Model{list: l, keys: keys}
}

// SetEntries replaces the items, keeping the cursor where it was. streaks is
// keyed by habit ID.
func (m *Model) SetEntries(entries []today.Entry, streaks map[string]int) {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e, Streak: streaks[e.Habit.ID]}
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) && len(items) > 0 {
		idx = len(items) - 1
	}
	m.list.Select(idx)
}

func (m Model) Items() []Item {
	out := make([]Item, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if i, ok := it.(Item); ok {
			out = append(out, i)
		}
	}
	return out
}

func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

// Filtering reports whether the filter input has focus
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: i.Entry.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.Entry.Habit.ID, Name: i.Entry.Habit.Name} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Stats):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ShowStatsMsg{ID: i.Entry.Habit.ID} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No active habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
