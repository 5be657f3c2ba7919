package today

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/storage"
)

var fixedNow = time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type recordingFeedback struct {
	signals []string
}

func (r *recordingFeedback) Success()          { r.signals = append(r.signals, "success") }
func (r *recordingFeedback) LightImpact()      { r.signals = append(r.signals, "light") }
func (r *recordingFeedback) Failure(err error) { r.signals = append(r.signals, "failure") }

func setupStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "habithub.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	return store
}

func addHabit(t *testing.T, store storage.Provider, name string, createdAt time.Time, active bool) models.Habit {
	t.Helper()
	h := models.Habit{
		ID:         uuid.New().String(),
		Name:       name,
		TargetDays: 30,
		Active:     active,
		CreatedAt:  createdAt,
	}
	require.NoError(t, store.AddHabit(h))
	return h
}

func TestLoadCreatesOneLogPerActiveHabit(t *testing.T) {
	store := setupStore(t)
	older := addHabit(t, store, "Older", fixedNow.Add(-48*time.Hour), true)
	newer := addHabit(t, store, "Newer", fixedNow.Add(-time.Hour), true)
	addHabit(t, store, "Paused", fixedNow.Add(-time.Hour), false)

	view := NewView(store, nil, fixedClock, time.UTC)
	require.NoError(t, view.Load())
	require.NoError(t, view.Load())

	entries := view.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, newer.ID, entries[0].Habit.ID)
	assert.Equal(t, older.ID, entries[1].Habit.ID)
	for _, e := range entries {
		assert.NotEmpty(t, e.Log.ID)
		assert.Equal(t, "2025-06-15", e.Log.Day)
		assert.False(t, e.Log.Completed)
	}

	logs, err := store.GetAllHabitLogs()
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestRefreshDoesNotWrite(t *testing.T) {
	store := setupStore(t)
	addHabit(t, store, "Read", fixedNow, true)

	view := NewView(store, nil, fixedClock, time.UTC)
	require.NoError(t, view.Refresh())

	entries := view.Entries()
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Log.ID)

	logs, err := store.GetAllHabitLogs()
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestToggleTwiceRestoresState(t *testing.T) {
	store := setupStore(t)
	h := addHabit(t, store, "Read", fixedNow, true)
	fb := &recordingFeedback{}

	view := NewView(store, fb, fixedClock, time.UTC)
	require.NoError(t, view.Load())

	require.NoError(t, view.Toggle(view.Entries()[0]))
	assert.True(t, view.Entries()[0].Log.Completed)
	assert.Equal(t, 1.0, view.Progress())

	require.NoError(t, view.Toggle(view.Entries()[0]))
	assert.False(t, view.Entries()[0].Log.Completed)
	assert.Equal(t, 0.0, view.Progress())

	assert.Equal(t, []string{"success", "light"}, fb.signals)

	logs, err := store.GetHabitLogs(h.ID, "", "")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.False(t, logs[0].Completed)
}

func TestToggleWithoutExistingLogCreatesIt(t *testing.T) {
	store := setupStore(t)
	h := addHabit(t, store, "Read", fixedNow, true)
	fb := &recordingFeedback{}

	view := NewView(store, fb, fixedClock, time.UTC)
	require.NoError(t, view.Refresh())
	require.NoError(t, view.Toggle(view.Entries()[0]))

	l, err := store.GetHabitLog(h.ID, "2025-06-15")
	require.NoError(t, err)
	assert.True(t, l.Completed)
	assert.Equal(t, []string{"success"}, fb.signals)
}

func TestProgressCounts(t *testing.T) {
	store := setupStore(t)
	a := addHabit(t, store, "Read", fixedNow.Add(-3*time.Hour), true)
	addHabit(t, store, "Walk", fixedNow.Add(-2*time.Hour), true)
	addHabit(t, store, "Swim", fixedNow.Add(-1*time.Hour), true)
	addHabit(t, store, "Rest", fixedNow, true)

	view := NewView(store, nil, fixedClock, time.UTC)
	require.NoError(t, view.Load())
	require.NoError(t, view.ToggleHabit(a.ID))

	assert.Equal(t, 4, view.TotalCount())
	assert.Equal(t, 1, view.CompletedCount())
	assert.Equal(t, 0.25, view.Progress())

	assert.ErrorIs(t, view.ToggleHabit("unknown"), storage.ErrNotFound)
}

func TestProgressEmpty(t *testing.T) {
	view := NewView(setupStore(t), nil, fixedClock, time.UTC)
	require.NoError(t, view.Load())
	assert.Equal(t, 0, view.TotalCount())
	assert.Equal(t, 0.0, view.Progress())
}

type brokenUpdates struct {
	storage.Provider
}

func (brokenUpdates) UpdateHabitLog(models.HabitLog) error {
	return errors.New("read-only filesystem")
}

func TestToggleFailureLeavesStateUnchanged(t *testing.T) {
	store := setupStore(t)
	h := addHabit(t, store, "Read", fixedNow, true)
	fb := &recordingFeedback{}

	view := NewView(brokenUpdates{Provider: store}, fb, fixedClock, time.UTC)
	require.NoError(t, view.Load())

	err := view.Toggle(view.Entries()[0])
	require.Error(t, err)
	assert.Equal(t, []string{"failure"}, fb.signals)
	assert.False(t, view.Entries()[0].Log.Completed)

	l, err := store.GetHabitLog(h.ID, "2025-06-15")
	require.NoError(t, err)
	assert.False(t, l.Completed)
}

func TestNewDayGetsNewLogs(t *testing.T) {
	store := setupStore(t)
	h := addHabit(t, store, "Read", fixedNow, true)

	now := fixedNow
	view := NewView(store, nil, func() time.Time { return now }, time.UTC)
	require.NoError(t, view.Load())
	require.NoError(t, view.Toggle(view.Entries()[0]))

	now = fixedNow.Add(24 * time.Hour)
	require.NoError(t, view.Load())
	assert.Equal(t, "2025-06-16", view.Today())
	assert.False(t, view.Entries()[0].Log.Completed)

	logs, err := store.GetHabitLogs(h.ID, "", "")
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}
