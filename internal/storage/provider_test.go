package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/validation"
)

type providerFactory func(t *testing.T) Provider

func providers(t *testing.T) map[string]providerFactory {
	t.Helper()
	factories := map[string]providerFactory{
		"sqlite": func(t *testing.T) Provider {
			s := NewSQLiteStore(filepath.Join(t.TempDir(), "habithub.db"))
			require.NoError(t, s.Init())
			t.Cleanup(func() { s.Close() })
			return s
		},
		"diskv": func(t *testing.T) Provider {
			s := NewDiskvStore(filepath.Join(t.TempDir(), "habithub.kv"))
			require.NoError(t, s.Init())
			return s
		},
	}
	if dsn := os.Getenv("HABITHUB_TEST_POSTGRES_DSN"); dsn != "" {
		factories["postgres"] = func(t *testing.T) Provider {
			s := NewPostgresStore(dsn)
			require.NoError(t, s.Init())
			_, err := s.db.Exec("TRUNCATE habit_logs, habits")
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		}
	}
	return factories
}

func forEachProvider(t *testing.T, fn func(t *testing.T, store Provider)) {
	for name, factory := range providers(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, factory(t))
		})
	}
}

var baseTime = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func newHabit(name string, created time.Time) models.Habit {
	return models.Habit{
		ID:         uuid.New().String(),
		Name:       name,
		TargetDays: 30,
		Active:     true,
		CreatedAt:  created,
		Frequency:  models.FrequencyDaily,
	}
}

func newLog(habitID, day string, completed bool) models.HabitLog {
	return models.HabitLog{
		ID:        uuid.New().String(),
		HabitID:   habitID,
		Day:       day,
		Completed: completed,
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}
}

func TestHabitCRUD(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		h := newHabit("  Read  ", baseTime)
		h.Category = models.CategoryLearning
		h.Color = "#FF9500"
		h.ReminderTime = "20:00"
		require.NoError(t, store.AddHabit(h))

		got, err := store.GetHabit(h.ID)
		require.NoError(t, err)
		assert.Equal(t, "Read", got.Name)
		assert.Equal(t, 30, got.TargetDays)
		assert.True(t, got.Active)
		assert.True(t, baseTime.Equal(got.CreatedAt))
		assert.Equal(t, models.CategoryLearning, got.Category)
		assert.Equal(t, "20:00", got.ReminderTime)

		got.Name = "Read more"
		got.Active = false
		got.ReminderTime = ""
		got.CreatedAt = baseTime.Add(48 * time.Hour)
		require.NoError(t, store.UpdateHabit(got))

		updated, err := store.GetHabit(h.ID)
		require.NoError(t, err)
		assert.Equal(t, "Read more", updated.Name)
		assert.False(t, updated.Active)
		assert.Empty(t, updated.ReminderTime)
		assert.True(t, baseTime.Equal(updated.CreatedAt), "created_at must not change")

		_, err = store.GetHabit("missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAddHabitRejectsInvalid(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		bad := newHabit("ab", baseTime)
		assert.ErrorIs(t, store.AddHabit(bad), validation.ErrInvalidHabit)

		bad = newHabit("Read", baseTime)
		bad.TargetDays = 0
		assert.ErrorIs(t, store.AddHabit(bad), validation.ErrInvalidHabit)

		all, err := store.GetAllHabits(false)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestUpdateHabitRejectsInvalid(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		h := newHabit("Read", baseTime)
		require.NoError(t, store.AddHabit(h))

		h.TargetDays = 500
		assert.ErrorIs(t, store.UpdateHabit(h), validation.ErrInvalidHabit)

		got, err := store.GetHabit(h.ID)
		require.NoError(t, err)
		assert.Equal(t, 30, got.TargetDays)

		missing := newHabit("Ghost", baseTime)
		assert.ErrorIs(t, store.UpdateHabit(missing), ErrNotFound)
	})
}

func TestGetAllHabitsOrderingAndFilter(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		oldest := newHabit("Oldest", baseTime)
		middle := newHabit("Middle", baseTime.Add(time.Hour))
		newest := newHabit("Newest", baseTime.Add(2*time.Hour))
		middle.Active = false
		for _, h := range []models.Habit{middle, newest, oldest} {
			require.NoError(t, store.AddHabit(h))
		}

		all, err := store.GetAllHabits(false)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"Newest", "Middle", "Oldest"}, []string{all[0].Name, all[1].Name, all[2].Name})

		active, err := store.GetAllHabits(true)
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, "Newest", active[0].Name)
		assert.Equal(t, "Oldest", active[1].Name)
	})
}

func TestHabitLogUniqueness(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		h := newHabit("Read", baseTime)
		require.NoError(t, store.AddHabit(h))

		require.NoError(t, store.AddHabitLog(newLog(h.ID, "2025-03-01", false)))
		err := store.AddHabitLog(newLog(h.ID, "2025-03-01", true))
		assert.ErrorIs(t, err, ErrDuplicateLog)

		logs, err := store.GetHabitLogs(h.ID, "", "")
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.False(t, logs[0].Completed)
	})
}

func TestHabitLogRangeAndUpdate(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		h := newHabit("Read", baseTime)
		require.NoError(t, store.AddHabit(h))
		for _, day := range []string{"2025-03-03", "2025-03-01", "2025-03-02", "2025-03-04"} {
			require.NoError(t, store.AddHabitLog(newLog(h.ID, day, false)))
		}

		logs, err := store.GetHabitLogs(h.ID, "2025-03-02", "2025-03-03")
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, "2025-03-02", logs[0].Day)
		assert.Equal(t, "2025-03-03", logs[1].Day)

		l, err := store.GetHabitLog(h.ID, "2025-03-04")
		require.NoError(t, err)
		l.Completed = true
		l.UpdatedAt = baseTime.Add(time.Hour)
		require.NoError(t, store.UpdateHabitLog(l))

		l, err = store.GetHabitLog(h.ID, "2025-03-04")
		require.NoError(t, err)
		assert.True(t, l.Completed)
		assert.True(t, baseTime.Add(time.Hour).Equal(l.UpdatedAt))

		_, err = store.GetHabitLog(h.ID, "2025-04-01")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAddHabitLogRejectsBadDay(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		h := newHabit("Read", baseTime)
		require.NoError(t, store.AddHabit(h))
		assert.Error(t, store.AddHabitLog(newLog(h.ID, "March 1st", false)))
	})
}

func TestDeleteHabitCascades(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		keep := newHabit("Keep", baseTime)
		drop := newHabit("Drop", baseTime)
		require.NoError(t, store.AddHabit(keep))
		require.NoError(t, store.AddHabit(drop))
		require.NoError(t, store.AddHabitLog(newLog(keep.ID, "2025-03-01", true)))
		require.NoError(t, store.AddHabitLog(newLog(drop.ID, "2025-03-01", true)))
		require.NoError(t, store.AddHabitLog(newLog(drop.ID, "2025-03-02", false)))

		require.NoError(t, store.DeleteHabit(drop.ID))

		_, err := store.GetHabit(drop.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		logs, err := store.GetAllHabitLogs()
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, keep.ID, logs[0].HabitID)

		assert.ErrorIs(t, store.DeleteHabit(drop.ID), ErrNotFound)
	})
}

func TestImportHabits(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		h := newHabit("Imported", baseTime)
		items := []models.HabitWithLogs{{
			Habit: h,
			Logs: []models.HabitLog{
				newLog(h.ID, "2025-03-01", true),
				newLog(h.ID, "2025-03-02", false),
			},
		}}
		require.NoError(t, store.ImportHabits(items))

		got, err := store.GetHabit(h.ID)
		require.NoError(t, err)
		assert.Equal(t, "Imported", got.Name)

		logs, err := store.GetHabitLogs(h.ID, "", "")
		require.NoError(t, err)
		assert.Len(t, logs, 2)
	})
}

func TestImportHabitsIsAllOrNothing(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		good := newHabit("Good", baseTime)
		bad := newHabit("Bad", baseTime)
		bad.TargetDays = 0

		err := store.ImportHabits([]models.HabitWithLogs{{Habit: good}, {Habit: bad}})
		assert.ErrorIs(t, err, validation.ErrInvalidHabit)

		all, err := store.GetAllHabits(false)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestImportHabitsRollsBackOnConflict(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		existing := newHabit("Existing", baseTime)
		require.NoError(t, store.AddHabit(existing))

		fresh := newHabit("Fresh", baseTime)
		clash := existing
		clash.Name = "Clash"

		err := store.ImportHabits([]models.HabitWithLogs{
			{Habit: fresh, Logs: []models.HabitLog{newLog(fresh.ID, "2025-03-01", true)}},
			{Habit: clash},
		})
		require.Error(t, err)

		all, err := store.GetAllHabits(false)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Existing", all[0].Name)

		logs, err := store.GetAllHabitLogs()
		require.NoError(t, err)
		assert.Empty(t, logs)
	})
}

func TestImportHabitsRejectsDuplicateIDs(t *testing.T) {
	forEachProvider(t, func(t *testing.T, store Provider) {
		first := newHabit("First", baseTime)
		second := first
		second.Name = "Second"

		err := store.ImportHabits([]models.HabitWithLogs{{Habit: first}, {Habit: second}})
		assert.ErrorIs(t, err, ErrDuplicateID)

		other := newHabit("Other", baseTime)
		l := newLog(other.ID, "2025-03-01", true)
		again := l
		again.Day = "2025-03-02"
		err = store.ImportHabits([]models.HabitWithLogs{{Habit: other, Logs: []models.HabitLog{l, again}}})
		assert.ErrorIs(t, err, ErrDuplicateID)

		err = store.ImportHabits([]models.HabitWithLogs{{Habit: other, Logs: []models.HabitLog{
			newLog(other.ID, "2025-03-01", true),
			newLog(other.ID, "2025-03-01", false),
		}}})
		assert.ErrorIs(t, err, ErrDuplicateLog)

		all, err := store.GetAllHabits(false)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestLoadUninitialized(t *testing.T) {
	dir := t.TempDir()

	err := NewSQLiteStore(filepath.Join(dir, "missing.db")).Load()
	assert.ErrorIs(t, err, ErrNotInitialized)

	err = NewDiskvStore(filepath.Join(dir, "missing.kv")).Load()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestSQLiteReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habithub.db")
	s := NewSQLiteStore(path)
	require.NoError(t, s.Init())
	h := newHabit("Persisted", baseTime)
	require.NoError(t, s.AddHabit(h))
	require.NoError(t, s.Close())

	reopened := NewSQLiteStore(path)
	require.NoError(t, reopened.Load())
	defer reopened.Close()

	got, err := reopened.GetHabit(h.ID)
	require.NoError(t, err)
	assert.Equal(t, "Persisted", got.Name)

	st, err := reopened.MigrationStatus()
	require.NoError(t, err)
	assert.True(t, st.UpToDate())
}

func TestSQLiteForeignKeyEnforced(t *testing.T) {
	s := NewSQLiteStore(filepath.Join(t.TempDir(), "habithub.db"))
	require.NoError(t, s.Init())
	defer s.Close()

	err := s.AddHabitLog(newLog(uuid.New().String(), "2025-03-01", false))
	assert.Error(t, err)
}
