package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habithub/internal/constants"
	"github.com/julianstephens/habithub/internal/habits"
	"github.com/julianstephens/habithub/internal/tui/components/habitlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.habitList.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case overviewMsg:
		m.overview = &msg
		return m, nil

	case habitStatsMsg:
		if msg.err != nil {
			m.status.errorf("✗ Could not load statistics")
			return m, nil
		}
		m.selected = &msg
		m.state = constants.StateStats
		return m, nil
	}

	if m.state == constants.StateAddHabit {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case habitlist.ToggleHabitMsg:
		if err := m.view.ToggleHabit(msg.ID); err != nil {
			return m, nil
		}
		m.syncList()
		return m, m.loadOverview()

	case habitlist.AddHabitMsg:
		cand := habits.DefaultCandidate()
		m.habitForm = NewHabitForm(&cand)
		m.form = m.habitForm.Form()
		m.state = constants.StateAddHabit
		return m, m.form.Init()

	case habitlist.DeleteHabitMsg:
		m.habitToDeleteID = msg.ID
		m.habitToDeleteName = msg.Name
		m.state = constants.StateConfirmDelete
		return m, nil

	case habitlist.ShowStatsMsg:
		return m, m.loadHabitStats(msg.ID)

	case tea.KeyMsg:
		if m.state == constants.StateConfirmDelete {
			return m.updateConfirmDelete(msg)
		}
		if m.state == constants.StateToday && m.habitList.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			if m.state == constants.StateStats {
				m.state = constants.StateToday
				return m, nil
			}
			m.selected = nil
			m.state = constants.StateStats
			return m, m.loadOverview()
		case m.state == constants.StateStats && key.Matches(msg, m.keys.Back):
			if m.selected != nil {
				m.selected = nil
				return m, nil
			}
			m.state = constants.StateToday
			return m, nil
		}
	}

	if m.state == constants.StateToday {
		var cmd tea.Cmd
		m.habitList, cmd = m.habitList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.habitForm.Commit(); err != nil {
			m.status.errorf("✗ %v", err)
			m.closeForm()
			return m, cmd
		}
		h, err := m.app.Editor.Save(m.habitForm.Candidate)
		m.closeForm()
		if err != nil {
			m.status.errorf("✗ Could not add habit: %v", err)
			return m, cmd
		}
		m.status.infof("Added %q", h.Name)
		m.reload()
		m.updateValidationStatus()
		return m, tea.Batch(cmd, m.loadOverview())
	case huh.StateAborted:
		m.closeForm()
	}

	return m, cmd
}

func (m *Model) closeForm() {
	m.form = nil
	m.habitForm = nil
	m.state = constants.StateToday
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		name := m.habitToDeleteName
		err := m.app.Editor.Delete(m.habitToDeleteID)
		m.habitToDeleteID, m.habitToDeleteName = "", ""
		m.state = constants.StateToday
		if err != nil {
			m.status.errorf("✗ Could not delete %q", name)
			return m, nil
		}
		m.status.infof("Deleted %q", name)
		m.reload()
		m.updateValidationStatus()
		return m, m.loadOverview()
	case key.Matches(msg, m.keys.Cancel):
		m.habitToDeleteID, m.habitToDeleteName = "", ""
		m.state = constants.StateToday
	}
	return m, nil
}
