package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
	"github.com/rakeshcr92/InsiderNet/pkg/util"
)

func point(t *testing.T, query, day string, interest *int, partial bool) models.TrendPoint {
	t.Helper()
	d, err := util.ParseDay(day)
	require.NoError(t, err)
	return models.TrendPoint{Query: query, Date: d, Interest: interest, IsPartial: partial}
}

func TestComputeTrendFeatures_EmptyInputIsDateOnly(t *testing.T) {
	table, err := ComputeTrendFeatures(nil, TrendOptions{})
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
	assert.Equal(t, []string{"date"}, table.Columns())
}

func TestComputeTrendFeatures_OverlapLastWriteWins(t *testing.T) {
	// two fetch windows both cover 2024-03-01
	points := []models.TrendPoint{
		point(t, "AAPL", "2024-02-28", intPtr(40), false),
		point(t, "AAPL", "2024-02-29", intPtr(45), false),
		point(t, "AAPL", "2024-03-01", intPtr(50), true),
		point(t, "AAPL", "2024-03-01", intPtr(60), false),
		point(t, "AAPL", "2024-03-02", intPtr(55), false),
	}

	table, err := ComputeTrendFeatures(points, TrendOptions{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	var march1 []models.TrendRow
	for _, r := range table.Rows {
		if r.Date == "2024-03-01" {
			march1 = append(march1, r)
		}
	}
	require.Len(t, march1, 1)
	assert.Equal(t, 60.0, march1[0].Interest)
	assert.Equal(t, 15.0, march1[0].TrendMomentum)
	assert.Equal(t, 0, march1[0].IsPartial)

	assert.Equal(t, "2024-02-29", table.Rows[0].Date)
	assert.Equal(t, -5.0, table.Rows[2].TrendMomentum)
}

func TestComputeTrendFeatures_Spike(t *testing.T) {
	days := []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04", "2024-03-05", "2024-03-06"}
	values := []int{10, 10, 10, 10, 30, 10}
	var points []models.TrendPoint
	for i, d := range days {
		points = append(points, point(t, "q", d, intPtr(values[i]), false))
	}

	table, err := ComputeTrendFeatures(points, TrendOptions{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 5)

	spikes := make([]int, len(table.Rows))
	for i, r := range table.Rows {
		spikes[i] = r.InterestSpike
	}
	assert.Equal(t, []int{0, 0, 0, 1, 0}, spikes)
}

func TestComputeTrendFeatures_Filters(t *testing.T) {
	points := []models.TrendPoint{
		point(t, "AAPL", "2024-03-01", intPtr(10), false),
		point(t, "Apple", "2024-03-01", intPtr(90), false),
		point(t, "AAPL", "2024-03-02", nil, false),
		point(t, "AAPL", "2024-03-03", intPtr(20), false),
		point(t, "AAPL", "2024-03-04", intPtr(35), true),
	}

	_, err := ComputeTrendFeatures(points, TrendOptions{})
	assert.ErrorIs(t, err, ErrMixedQueries)

	table, err := ComputeTrendFeatures(points, TrendOptions{Query: "AAPL"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "2024-03-03", table.Rows[0].Date)
	assert.Equal(t, 10.0, table.Rows[0].TrendMomentum)
	assert.Equal(t, 1, table.Rows[1].IsPartial)

	table, err = ComputeTrendFeatures(points, TrendOptions{Query: "AAPL", SkipPartial: true})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "2024-03-03", table.Rows[0].Date)
}

func TestComputeTrendFeatures_SingleObservation(t *testing.T) {
	table, err := ComputeTrendFeatures([]models.TrendPoint{point(t, "q", "2024-03-01", intPtr(5), false)}, TrendOptions{})
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
	assert.Len(t, table.Columns(), 1+len(models.TrendColumns))
}
