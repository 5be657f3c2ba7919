package backup

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/julianstephens/habithub/internal/constants"
	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/utils"
	"github.com/julianstephens/habithub/internal/validation"
)

var (
	// ErrMalformedPayload means the import could not be understood; nothing was written
	ErrMalformedPayload = errors.New("invalid JSON format or missing habits data")
	// ErrImportCommit means the staged records could not be saved
	ErrImportCommit = errors.New("failed to save imported data")
)

// ImportReport summarizes a finished import
type ImportReport struct {
	Habits   int
	Logs     int
	Warnings []string
}

func (r *ImportReport) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

type importDocument struct {
	Habits *[]json.RawMessage `json:"habits"`
}

// idSet tracks identifiers already used by the store or earlier payload records
type idSet map[string]struct{}

// claim keeps raw when it is an unused UUID and mints a fresh one otherwise
func (ids idSet) claim(raw string) (string, bool) {
	if parsed, err := uuid.Parse(strings.TrimSpace(raw)); err == nil {
		id := parsed.String()
		if _, taken := ids[id]; !taken {
			ids[id] = struct{}{}
			return id, true
		}
	}
	id := uuid.New().String()
	ids[id] = struct{}{}
	return id, false
}

// ImportJSON inserts every habit of an export document as a new record.
// The whole payload is staged before the single commit, so a malformed
// document writes nothing.
func (s *Service) ImportJSON(r io.Reader) (ImportReport, error) {
	var report ImportReport

	data, err := io.ReadAll(r)
	if err != nil {
		return report, fmt.Errorf("failed to read import: %w", err)
	}

	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return report, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if doc.Habits == nil {
		return report, ErrMalformedPayload
	}

	ids, err := s.knownIDs()
	if err != nil {
		return report, err
	}

	items := make([]models.HabitWithLogs, 0, len(*doc.Habits))
	for i, raw := range *doc.Habits {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
			return ImportReport{}, fmt.Errorf("%w: habit %d is not an object", ErrMalformedPayload, i)
		}
		items = append(items, s.stageHabit(i, fields, ids, &report))
	}

	if err := s.store.ImportHabits(items); err != nil {
		s.log.Error("import commit failed", "error", err)
		return ImportReport{}, fmt.Errorf("%w: %w", ErrImportCommit, err)
	}

	for _, item := range items {
		report.Habits++
		report.Logs += len(item.Logs)
	}
	s.log.Info("imported json", "habits", report.Habits, "logs", report.Logs, "warnings", len(report.Warnings))
	return report, nil
}

func (s *Service) knownIDs() (idSet, error) {
	ids := idSet{}
	habits, err := s.store.GetAllHabits(false)
	if err != nil {
		return nil, fmt.Errorf("failed to read habits: %w", err)
	}
	for _, h := range habits {
		ids[h.ID] = struct{}{}
	}
	logs, err := s.store.GetAllHabitLogs()
	if err != nil {
		return nil, fmt.Errorf("failed to read logs: %w", err)
	}
	for _, l := range logs {
		ids[l.ID] = struct{}{}
	}
	return ids, nil
}

func (s *Service) stageHabit(i int, fields map[string]json.RawMessage, ids idSet, report *ImportReport) models.HabitWithLogs {
	now := s.now()
	rawID, _ := stringField(fields, "id")
	id, _ := ids.claim(rawID)

	h := models.Habit{ID: id, Active: true, Frequency: models.FrequencyDaily}

	name, _ := stringField(fields, "name")
	h.Name = strings.TrimSpace(name)
	if utf8.RuneCountInString(h.Name) < constants.MinNameLength {
		if h.Name != "" {
			report.warnf("habit %d: name %q is too short, using %q", i, h.Name, constants.ImportedHabitName)
		}
		h.Name = constants.ImportedHabitName
	}

	h.TargetDays = constants.DefaultTargetDays
	if _, present := fields["target_days"]; present {
		v, ok := numberField(fields, "target_days")
		switch {
		case !ok:
			report.warnf("habit %q: target_days is not a number, using %d", h.Name, constants.DefaultTargetDays)
		case v < constants.MinTargetDays:
			report.warnf("habit %q: target_days %g raised to %d", h.Name, v, constants.MinTargetDays)
			h.TargetDays = constants.MinTargetDays
		case v > constants.MaxTargetDays:
			report.warnf("habit %q: target_days %g lowered to %d", h.Name, v, constants.MaxTargetDays)
			h.TargetDays = constants.MaxTargetDays
		default:
			h.TargetDays = int(v)
			if v != math.Trunc(v) {
				report.warnf("habit %q: target_days %g truncated to %d", h.Name, v, h.TargetDays)
			}
		}
	}

	if active, ok := boolField(fields, "is_active"); ok {
		h.Active = active
	}

	h.CreatedAt = now
	if created, ok := stringField(fields, "created_date"); ok {
		if t, err := s.parseDate(created); err == nil {
			h.CreatedAt = t
		} else {
			report.warnf("habit %q: unreadable created_date %q, using now", h.Name, created)
		}
	}

	h.Category, _ = stringField(fields, "category")
	h.Icon, _ = stringField(fields, "icon")
	h.Color, _ = stringField(fields, "color")
	h.Notes, _ = stringField(fields, "notes")
	h.ReminderTime, _ = stringField(fields, "reminder_time")
	if freq, ok := stringField(fields, "frequency"); ok {
		if f, err := models.ParseFrequency(freq); err == nil {
			h.Frequency = f
		} else {
			report.warnf("habit %q: %v, using daily", h.Name, err)
		}
	}
	if err := validation.ValidateHabit(h); err != nil {
		report.warnf("habit %q: dropping display details (%v)", h.Name, err)
		h.Color = ""
		h.ReminderTime = ""
	}

	return models.HabitWithLogs{Habit: h, Logs: s.stageLogs(h, fields, ids, report)}
}

func (s *Service) stageLogs(h models.Habit, fields map[string]json.RawMessage, ids idSet, report *ImportReport) []models.HabitLog {
	raw, ok := fields["logs"]
	if !ok {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		report.warnf("habit %q: logs is not a list, skipped", h.Name)
		return nil
	}

	now := s.now()
	today := utils.DayKey(now, s.loc)
	byDay := make(map[string]int, len(entries))
	logs := make([]models.HabitLog, 0, len(entries))
	for j, entry := range entries {
		var lf map[string]json.RawMessage
		if err := json.Unmarshal(entry, &lf); err != nil || lf == nil {
			report.warnf("habit %q: log %d is not an object, skipped", h.Name, j)
			continue
		}

		day := today
		if d, ok := stringField(lf, "date"); ok {
			if t, err := s.parseDate(d); err == nil {
				day = utils.DayKey(t, s.loc)
			} else {
				report.warnf("habit %q: unreadable log date %q, using today", h.Name, d)
			}
		}
		completed, _ := boolField(lf, "is_completed")

		rawID, _ := stringField(lf, "id")
		l := models.HabitLog{
			HabitID:   h.ID,
			Day:       day,
			Completed: completed,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if k, dup := byDay[day]; dup {
			l.ID = logs[k].ID
			logs[k] = l
			report.warnf("habit %q: duplicate log for %s, keeping the last one", h.Name, day)
			continue
		}
		l.ID, _ = ids.claim(rawID)
		byDay[day] = len(logs)
		logs = append(logs, l)
	}
	return logs
}

// parseDate accepts RFC 3339 timestamps and bare YYYY-MM-DD days
func (s *Service) parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, nil
	}
	return utils.ParseDayInLocation(v, s.loc)
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return v, true
}

// numberField returns the raw float. Range-check it before converting to int.
func numberField(fields map[string]json.RawMessage, key string) (float64, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

func boolField(fields map[string]json.RawMessage, key string) (bool, bool) {
	raw, ok := fields[key]
	if !ok {
		return false, false
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, false
	}
	return v, true
}
