// Package stats computes streaks and completion rates from habit logs.
//
// "Today" is the start of the current calendar day in the calculator's
// location. Every query reads the habit's logs once and works on an
// in-memory day index. Read errors are logged and treated as "not completed".
package stats

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/habithub/internal/constants"
	"github.com/julianstephens/habithub/internal/logger"
	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/storage"
	"github.com/julianstephens/habithub/internal/utils"
)

// HabitStats summarizes one habit over a trailing window
type HabitStats struct {
	CurrentStreak  int
	LongestStreak  int
	CompletionRate float64
	TotalDays      int
	CompletedDays  int
}

// DayCompletion is one calendar day of a habit's history
type DayCompletion struct {
	Date      time.Time
	Day       string // YYYY-MM-DD
	Completed bool
}

// Calculator answers read-only completion queries. It holds no mutable
// state and is safe for concurrent use.
type Calculator struct {
	store storage.Provider
	now   utils.Clock
	loc   *time.Location
	log   *log.Logger
}

// NewCalculator creates a calculator. A nil clock means the wall clock and a
// nil location means time.Local.
func NewCalculator(store storage.Provider, clock utils.Clock, loc *time.Location) *Calculator {
	if clock == nil {
		clock = utils.SystemClock
	}
	if loc == nil {
		loc = time.Local
	}
	return &Calculator{
		store: store,
		now:   clock,
		loc:   loc,
		log:   logger.Component("stats"),
	}
}

// Today returns the start of the current day
func (c *Calculator) Today() time.Time {
	return utils.StartOfDay(c.now(), c.loc)
}

// Location returns the calculator's time zone
func (c *Calculator) Location() *time.Location {
	return c.loc
}

type dayIndex map[string]bool

func (idx dayIndex) completed(day time.Time) bool {
	return idx[day.Format(constants.DateFormat)]
}

// index loads the completed days of a habit within [start, end]. A zero
// start leaves the range open.
func (c *Calculator) index(habit models.Habit, start, end time.Time) dayIndex {
	startKey := ""
	if !start.IsZero() {
		startKey = start.Format(constants.DateFormat)
	}

	logs, err := c.store.GetHabitLogs(habit.ID, startKey, end.Format(constants.DateFormat))
	if err != nil {
		c.log.Warn("failed to read habit logs", "habit", habit.ID, "error", err)
		return dayIndex{}
	}

	idx := make(dayIndex, len(logs))
	for _, l := range logs {
		if l.Completed {
			idx[l.Day] = true
		}
	}
	return idx
}

// IsCompletedOnDate reports whether the habit has a completed log on date's day
func (c *Calculator) IsCompletedOnDate(habit models.Habit, date time.Time) bool {
	l, err := c.store.GetHabitLog(habit.ID, utils.DayKey(date, c.loc))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.log.Warn("failed to read habit log", "habit", habit.ID, "error", err)
		}
		return false
	}
	return l.Completed
}

// CurrentStreak counts consecutive completed days ending today. An
// incomplete today yields 0.
func (c *Calculator) CurrentStreak(habit models.Habit) int {
	today := c.Today()
	return currentStreak(c.index(habit, time.Time{}, today), today)
}

func currentStreak(idx dayIndex, today time.Time) int {
	streak := 0
	for day := today; idx.completed(day); day = utils.AddDays(day, -1) {
		streak++
	}
	return streak
}

// LongestStreak is the longest run of consecutive completed days from the
// habit's creation day through today.
func (c *Calculator) LongestStreak(habit models.Habit) int {
	today := c.Today()
	start := c.startDay(habit, today)
	return longestStreak(c.index(habit, start, today), start, today)
}

func (c *Calculator) startDay(habit models.Habit, today time.Time) time.Time {
	if habit.CreatedAt.IsZero() {
		return today
	}
	start := utils.StartOfDay(habit.CreatedAt, c.loc)
	if start.After(today) {
		return today
	}
	return start
}

func longestStreak(idx dayIndex, start, end time.Time) int {
	longest, run := 0, 0
	for day := start; !day.After(end); day = utils.AddDays(day, 1) {
		if idx.completed(day) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

// windowStart is the first day of a trailing window of n days ending today
func windowStart(today time.Time, n int) time.Time {
	return utils.AddDays(today, -(n - 1))
}

// CompletionRate is the number of completed days in the trailing window of
// windowDays days (today included) divided by windowDays. The denominator
// does not shrink for habits younger than the window.
func (c *Calculator) CompletionRate(habit models.Habit, windowDays int) float64 {
	if windowDays <= 0 {
		return 0
	}
	today := c.Today()
	start := windowStart(today, windowDays)
	completed := completedInRange(c.index(habit, start, today), start, today)
	return float64(completed) / float64(windowDays)
}

func completedInRange(idx dayIndex, start, end time.Time) int {
	n := 0
	for day := start; !day.After(end); day = utils.AddDays(day, 1) {
		if idx.completed(day) {
			n++
		}
	}
	return n
}

// CompletionHistory returns exactly windowDays entries, oldest first, ending today
func (c *Calculator) CompletionHistory(habit models.Habit, windowDays int) []DayCompletion {
	if windowDays <= 0 {
		return []DayCompletion{}
	}
	today := c.Today()
	start := windowStart(today, windowDays)
	idx := c.index(habit, start, today)

	history := make([]DayCompletion, 0, windowDays)
	for day := start; !day.After(today); day = utils.AddDays(day, 1) {
		history = append(history, DayCompletion{
			Date:      day,
			Day:       day.Format(constants.DateFormat),
			Completed: idx.completed(day),
		})
	}
	return history
}

// Stats computes every per-habit figure from a single read of the habit's logs
func (c *Calculator) Stats(habit models.Habit, windowDays int) HabitStats {
	today := c.Today()
	idx := c.index(habit, time.Time{}, today)

	st := HabitStats{
		CurrentStreak: currentStreak(idx, today),
		LongestStreak: longestStreak(idx, c.startDay(habit, today), today),
	}
	if windowDays > 0 {
		st.TotalDays = windowDays
		st.CompletedDays = completedInRange(idx, windowStart(today, windowDays), today)
		st.CompletionRate = float64(st.CompletedDays) / float64(windowDays)
	}
	return st
}
