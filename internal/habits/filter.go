package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habithub/internal/models"
)

// FilterStatus narrows a habit list by its active flag
type FilterStatus int

const (
	FilterAll FilterStatus = iota
	FilterActive
	FilterInactive
)

func (f FilterStatus) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterInactive:
		return "inactive"
	default:
		return "all"
	}
}

// ParseFilterStatus maps "all", "active" or "inactive" to a FilterStatus
func ParseFilterStatus(s string) (FilterStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "inactive":
		return FilterInactive, nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q", s)
}

// Filter keeps the habits whose name contains query (case-insensitive) and
// whose status matches. Input order is preserved.
func Filter(habits []models.Habit, query string, status FilterStatus) []models.Habit {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		switch {
		case status == FilterActive && !h.Active:
			continue
		case status == FilterInactive && h.Active:
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(h.Name), q) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// FindByName returns the first habit whose trimmed name equals name, ignoring case
func FindByName(habits []models.Habit, name string) (models.Habit, bool) {
	want := strings.TrimSpace(name)
	for _, h := range habits {
		if strings.EqualFold(strings.TrimSpace(h.Name), want) {
			return h, true
		}
	}
	return models.Habit{}, false
}
