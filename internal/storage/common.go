package storage

import (
	"fmt"
	"time"

	"github.com/julianstephens/habithub/internal/constants"
	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/validation"
)

func validateLog(log models.HabitLog) error {
	if log.ID == "" || log.HabitID == "" {
		return fmt.Errorf("log id and habit id are required")
	}
	if _, err := time.Parse(constants.DateFormat, log.Day); err != nil {
		return fmt.Errorf("invalid log day %q: %w", log.Day, err)
	}
	return nil
}

// prepareImport normalizes and validates an import batch before any write,
// so an invalid record aborts the whole batch.
func prepareImport(items []models.HabitWithLogs) ([]models.HabitWithLogs, error) {
	out := make([]models.HabitWithLogs, len(items))
	seen := make(map[string]bool)
	for i, item := range items {
		h := normalizeHabit(item.Habit)
		if h.ID == "" {
			return nil, fmt.Errorf("import record %d: habit id is required", i)
		}
		if seen[h.ID] {
			return nil, fmt.Errorf("import record %d: habit %s: %w", i, h.ID, ErrDuplicateID)
		}
		seen[h.ID] = true
		if err := validation.ValidateHabit(h); err != nil {
			return nil, fmt.Errorf("import record %d: %w", i, err)
		}
		logs := make([]models.HabitLog, len(item.Logs))
		days := make(map[string]bool, len(item.Logs))
		for j, l := range item.Logs {
			l.HabitID = h.ID
			if err := validateLog(l); err != nil {
				return nil, fmt.Errorf("import record %d: %w", i, err)
			}
			if seen[l.ID] {
				return nil, fmt.Errorf("import record %d: log %s: %w", i, l.ID, ErrDuplicateID)
			}
			seen[l.ID] = true
			if days[l.Day] {
				return nil, fmt.Errorf("import record %d: day %s: %w", i, l.Day, ErrDuplicateLog)
			}
			days[l.Day] = true
			logs[j] = l
		}
		out[i] = models.HabitWithLogs{Habit: h, Logs: logs}
	}
	return out, nil
}
