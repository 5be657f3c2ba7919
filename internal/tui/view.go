package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habithub/internal/constants"
)

const progressWidth = 30

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateToday:
		content = m.viewToday()
	case constants.StateStats:
		content = m.viewStats()
	case constants.StateAddHabit:
		content = m.viewForm()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	parts := []string{m.viewTabs(), content}
	if s := m.status.View(); s != "" {
		parts = append(parts, s)
	}
	parts = append(parts, m.help.View(m))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) viewTabs() string {
	var tabs []string
	for _, tab := range []struct {
		title string
		state constants.SessionState
	}{
		{"Today", constants.StateToday},
		{"Stats", constants.StateStats},
	} {
		if m.state == tab.state {
			tabs = append(tabs, activeTabStyle.Render(tab.title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tab.title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n"
}

func (m Model) viewToday() string {
	var b strings.Builder

	day := m.view.Today()
	b.WriteString(titleStyle.Render("Today") + subtleStyle.Render(day) + "\n")

	if m.err != nil {
		b.WriteString(dangerStyle.Render(m.err.Error()) + "\n")
	}

	done, total := m.view.CompletedCount(), m.view.TotalCount()
	b.WriteString(progressBar(m.view.Progress(), progressWidth))
	b.WriteString(fmt.Sprintf(" %d/%d completed\n", done, total))

	if m.validationWarning != "" {
		b.WriteString(warningStyle.Render(m.validationWarning) + "\n")
	}

	b.WriteString(m.habitList.View())
	return b.String()
}

func (m Model) viewForm() string {
	if m.form == nil {
		return ""
	}
	return titleStyle.Render("New habit") + "\n\n" + m.form.View()
}

func (m Model) viewStats() string {
	if m.selected != nil {
		return m.viewHabitStats()
	}
	if m.overview == nil {
		return subtleStyle.Render("Loading statistics...")
	}
	if m.overview.err != nil {
		return dangerStyle.Render("Could not load statistics: " + m.overview.err.Error())
	}

	ov := m.overview.overview
	summary := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Overview"),
		fmt.Sprintf("Habits:          %d (%d active)", ov.TotalHabits, ov.ActiveHabits),
		fmt.Sprintf("Completed days:  %d in the last %d days", ov.TotalCompletedDays, ov.WindowDays),
		fmt.Sprintf("Average rate:    %s", percent(ov.AverageCompletionRate)),
		fmt.Sprintf("Combined streak: %d", ov.TotalStreak),
	)

	var week strings.Builder
	week.WriteString(titleStyle.Render("This week") + "\n")
	for _, d := range m.overview.week {
		week.WriteString(fmt.Sprintf("%s %s %s\n", d.Date.Format("Mon"), progressBar(d.Rate, 14), percent(d.Rate)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(summary),
		"  ",
		panelStyle.Render(strings.TrimRight(week.String(), "\n")),
	)
}

func (m Model) viewHabitStats() string {
	s := m.selected
	var strip strings.Builder
	for _, d := range s.history {
		if d.Completed {
			strip.WriteString(progressFilledStyle.Render("■"))
		} else {
			strip.WriteString(progressEmptyStyle.Render("□"))
		}
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(s.habit.Name),
		fmt.Sprintf("Current streak:  %d", s.stats.CurrentStreak),
		fmt.Sprintf("Longest streak:  %d", s.stats.LongestStreak),
		fmt.Sprintf("Completion rate: %s (%d/%d days)", percent(s.stats.CompletionRate), s.stats.CompletedDays, s.stats.TotalDays),
		"",
		strip.String(),
	))
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, max(m.height-6, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q and all of its logs?", m.habitToDeleteName)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func progressBar(rate float64, width int) string {
	filled := int(rate*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return progressFilledStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func percent(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}
