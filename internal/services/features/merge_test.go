package features

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
)

func priceTable(dates ...string) models.PriceTable {
	var t models.PriceTable
	for i, d := range dates {
		t.Rows = append(t.Rows, models.PriceRow{Date: d, PriceFeatures: models.PriceFeatures{Close: 100 + float64(i)}})
	}
	return t
}

func TestMerge_LeftJoinZeroFill(t *testing.T) {
	price := priceTable("2024-03-01", "2024-03-04", "2024-03-05")
	sentiment := models.SentimentTable{Rows: []models.SentimentRow{
		{Date: "2024-03-04", SentimentFeatures: models.SentimentFeatures{RedditMentions: 3, AvgSentiment: 0.2}},
		{Date: "2024-03-09", SentimentFeatures: models.SentimentFeatures{RedditMentions: 9}},
	}}
	trend := models.TrendTable{Rows: []models.TrendRow{
		{Date: "2024-03-05", TrendFeatures: models.TrendFeatures{Interest: 40, TrendMomentum: -2}},
	}}
	calendar, err := ComputeCalendarFeatures([]string{"2024-03-01", "2024-03-04", "2024-03-05"})
	require.NoError(t, err)

	merged, err := Merge(price, sentiment, trend, calendar)
	require.NoError(t, err)
	require.Len(t, merged.Rows, 3)

	assert.Equal(t, models.SentimentFeatures{}, merged.Rows[0].Sentiment)
	assert.Equal(t, models.TrendFeatures{}, merged.Rows[0].Trend)
	assert.Equal(t, 4, merged.Rows[0].Calendar.DayOfWeek)

	assert.Equal(t, 3, merged.Rows[1].Sentiment.RedditMentions)
	assert.Equal(t, 40.0, merged.Rows[2].Trend.Interest)
	assert.Equal(t, 101.0, merged.Rows[1].Price.Close)

	for _, r := range merged.Rows {
		assert.NotEqual(t, "2024-03-09", r.Date)
		assert.Len(t, r.Values(), len(merged.Columns()))
	}
}

func TestMerge_EmptySources(t *testing.T) {
	price := priceTable("2024-03-01", "2024-03-04")
	merged, err := Merge(price, models.SentimentTable{}, models.TrendTable{DateOnly: true}, models.CalendarTable{})
	require.NoError(t, err)
	assert.Len(t, merged.Rows, 2)

	merged, err = Merge(models.PriceTable{}, models.SentimentTable{}, models.TrendTable{}, models.CalendarTable{})
	require.NoError(t, err)
	assert.Empty(t, merged.Rows)
}

func TestMerge_RejectsDuplicates(t *testing.T) {
	price := priceTable("2024-03-01", "2024-03-04")
	sentiment := models.SentimentTable{Rows: []models.SentimentRow{{Date: "2024-03-01"}, {Date: "2024-03-01"}}}

	_, err := Merge(price, sentiment, models.TrendTable{}, models.CalendarTable{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	var dup *DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "sentiment", dup.Table)
	assert.Equal(t, "2024-03-01", dup.Date)

	_, err = Merge(priceTable("2024-03-01", "2024-03-01"), models.SentimentTable{}, models.TrendTable{}, models.CalendarTable{})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}
