package stats

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/habithub/internal/constants"
	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/utils"
)

// maxConcurrentQueries bounds the per-habit fan-out of Overview
const maxConcurrentQueries = 4

// Overview aggregates statistics across habits
type Overview struct {
	TotalHabits           int
	ActiveHabits          int
	TotalCompletedDays    int
	AverageCompletionRate float64
	TotalStreak           int
	WindowDays            int
}

// DayRate is the share of active habits completed on one day
type DayRate struct {
	Date time.Time
	Day  string
	Rate float64
}

func activeOnly(habits []models.Habit) []models.Habit {
	active := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if h.Active {
			active = append(active, h)
		}
	}
	return active
}

// Overview computes totals over the active habits. Per-habit statistics are
// computed concurrently; the only error returned is ctx's.
func (c *Calculator) Overview(ctx context.Context, habits []models.Habit, windowDays int) (Overview, error) {
	active := activeOnly(habits)
	ov := Overview{
		TotalHabits:  len(habits),
		ActiveHabits: len(active),
		WindowDays:   windowDays,
	}
	if len(active) == 0 {
		return ov, nil
	}

	results := make([]HabitStats, len(active))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQueries)
	for i, h := range active {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.Stats(h, windowDays)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	var rateSum float64
	for _, st := range results {
		ov.TotalCompletedDays += st.CompletedDays
		ov.TotalStreak += st.CurrentStreak
		rateSum += st.CompletionRate
	}
	ov.AverageCompletionRate = rateSum / float64(len(active))
	return ov, nil
}

// DayCompletionRate is the fraction of active habits completed on date's
// day, 0 when there are no active habits.
func (c *Calculator) DayCompletionRate(habits []models.Habit, date time.Time) float64 {
	day := utils.StartOfDay(date, c.loc)
	return c.dayRates(habits, day, 1)[0].Rate
}

// WeekSummary returns the completion rate of each of the last seven days, oldest first
func (c *Calculator) WeekSummary(habits []models.Habit) []DayRate {
	today := c.Today()
	return c.dayRates(habits, windowStart(today, constants.WeekSummaryDays), constants.WeekSummaryDays)
}

func (c *Calculator) dayRates(habits []models.Habit, start time.Time, days int) []DayRate {
	active := activeOnly(habits)
	end := utils.AddDays(start, days-1)

	indexes := make([]dayIndex, len(active))
	for i, h := range active {
		indexes[i] = c.index(h, start, end)
	}

	rates := make([]DayRate, 0, days)
	for day := start; !day.After(end); day = utils.AddDays(day, 1) {
		dr := DayRate{Date: day, Day: day.Format(constants.DateFormat)}
		if len(active) > 0 {
			done := 0
			for _, idx := range indexes {
				if idx.completed(day) {
					done++
				}
			}
			dr.Rate = float64(done) / float64(len(active))
		}
		rates = append(rates, dr)
	}
	return rates
}
