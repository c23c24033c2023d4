package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/league-scheduler-api/internal/models"
)

func TestBuildGridFlagsCollisions(t *testing.T) {
	fields := []FieldWindow{saturdayWindow("f1", 2), {
		FieldID: "f2", FieldName: "Field f2", Weekday: time.Saturday, Start: 8 * time.Hour, Interval: 0, MaxGames: 1,
	}}
	first := saturday.Add(8 * time.Hour)
	second := saturday.Add(9*time.Hour + 15*time.Minute)
	games := []models.Game{
		{ID: "g1", FieldID: "f1", GameDate: first},
		{ID: "g2", FieldID: "f1", GameDate: first},
		{ID: "g3", FieldID: "f2", GameDate: first},
		{ID: "elsewhere", FieldID: "f9", GameDate: first},
	}

	grid := BuildGrid([]time.Time{saturday}, fields, games)

	require.Len(t, grid.Columns, 2)
	assert.Equal(t, "f1", grid.Columns[0].FieldID)
	require.Len(t, grid.Rows, 2)
	assert.Equal(t, first, grid.Rows[0].At)
	assert.Equal(t, second, grid.Rows[1].At)

	assert.True(t, grid.Rows[0].Cells[0].Collision())
	assert.Len(t, grid.Rows[0].Cells[1].Games, 1)
	assert.False(t, grid.Rows[1].Cells[1].Available, "f2 only offers one game")
	assert.True(t, grid.Rows[1].Cells[0].Available)
	assert.Empty(t, grid.Rows[1].Cells[0].Games)
	assert.Equal(t, 1, grid.Collisions)
}
