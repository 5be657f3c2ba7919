package habits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habithub/internal/models"
)

func names(habits []models.Habit) []string {
	out := make([]string, 0, len(habits))
	for _, h := range habits {
		out = append(out, h.Name)
	}
	return out
}

func TestFilter(t *testing.T) {
	habits := []models.Habit{
		{ID: "1", Name: "Read Books", Active: true},
		{ID: "2", Name: "Morning Run", Active: false},
		{ID: "3", Name: "Bedtime reading", Active: true},
	}

	assert.Equal(t, []string{"Read Books", "Morning Run", "Bedtime reading"}, names(Filter(habits, "", FilterAll)))
	assert.Equal(t, []string{"Read Books", "Bedtime reading"}, names(Filter(habits, "READ", FilterAll)))
	assert.Equal(t, []string{"Morning Run"}, names(Filter(habits, "", FilterInactive)))
	assert.Equal(t, []string{"Bedtime reading"}, names(Filter(habits, " bed ", FilterActive)))
	assert.Empty(t, Filter(habits, "swim", FilterAll))
}

func TestParseFilterStatus(t *testing.T) {
	f, err := ParseFilterStatus("Active")
	require.NoError(t, err)
	assert.Equal(t, FilterActive, f)

	f, err = ParseFilterStatus("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	_, err = ParseFilterStatus("paused")
	assert.Error(t, err)
}

func TestFindByName(t *testing.T) {
	habits := []models.Habit{{ID: "1", Name: "Read"}, {ID: "2", Name: "Walk"}}

	h, ok := FindByName(habits, " walk")
	require.True(t, ok)
	assert.Equal(t, "2", h.ID)

	_, ok = FindByName(habits, "swim")
	assert.False(t, ok)
}
