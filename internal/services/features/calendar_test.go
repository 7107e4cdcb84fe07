package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCalendarFeatures(t *testing.T) {
	table, err := ComputeCalendarFeatures([]string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04", "2024-03-01"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 4)

	tests := []struct {
		date    string
		dow     int
		weekend int
	}{
		{"2024-03-01", 4, 0}, // Friday
		{"2024-03-02", 5, 1},
		{"2024-03-03", 6, 1},
		{"2024-03-04", 0, 0}, // Monday
	}
	for i, tt := range tests {
		row := table.Rows[i]
		assert.Equal(t, tt.date, row.Date)
		assert.Equal(t, tt.dow, row.DayOfWeek, tt.date)
		assert.Equal(t, tt.weekend, row.IsWeekend, tt.date)
		assert.Equal(t, 3, row.Month)
	}
}

func TestComputeCalendarFeatures_BadDate(t *testing.T) {
	_, err := ComputeCalendarFeatures([]string{"03/01/2024"})
	assert.Error(t, err)
}
