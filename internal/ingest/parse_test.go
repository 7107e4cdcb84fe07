package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
)

func decode[T any](t *testing.T, raw string) []T {
	t.Helper()
	var out []T
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestParsePrices_SortsAndDefaults(t *testing.T) {
	recs := decode[models.PriceRecord](t, `[
		{"date":"2024-03-04","open":10,"high":11,"low":9,"close":10.5,"volume":100},
		{"date":"2024-03-01","open":9,"high":10,"low":8,"close":9.5,"volume":90,"dividends":0.2,"splits":0}
	]`)

	bars, err := ParsePrices(context.Background(), recs)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, "2024-03-01", bars[0].Day())
	assert.Equal(t, 0.2, bars[0].Dividends)
	assert.Equal(t, "2024-03-04", bars[1].Day())
	assert.Equal(t, 0.0, bars[1].Dividends)
	assert.Equal(t, 0.0, bars[1].Splits)
}

func TestParsePrices_MissingColumn(t *testing.T) {
	recs := decode[models.PriceRecord](t, `[
		{"date":"2024-03-01","open":9,"high":10,"low":8,"close":9.5,"volume":90},
		{"date":"2024-03-04","open":10,"high":11,"low":9,"volume":100}
	]`)

	_, err := ParsePrices(context.Background(), recs)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)

	var mc *MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, TablePrices, mc.Table)
	assert.Equal(t, "close", mc.Column)
	assert.Equal(t, 1, mc.Row)
}

func TestParsePrices_ZeroIsPresent(t *testing.T) {
	recs := decode[models.PriceRecord](t, `[{"date":"2024-03-01","open":0,"high":0,"low":0,"close":0,"volume":0}]`)
	bars, err := ParsePrices(context.Background(), recs)
	require.NoError(t, err)
	assert.Len(t, bars, 1)
}

func TestParsePrices_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"bad date":       `[{"date":"03/01/2024","open":1,"high":1,"low":1,"close":1,"volume":1}]`,
		"negative close": `[{"date":"2024-03-01","open":1,"high":1,"low":1,"close":-1,"volume":1}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePrices(context.Background(), decode[models.PriceRecord](t, raw))
			assert.ErrorIs(t, err, ErrInvalidValue)
			assert.NotErrorIs(t, err, ErrMissingColumn)
		})
	}
}

func TestParsePrices_DuplicateDate(t *testing.T) {
	recs := decode[models.PriceRecord](t, `[
		{"date":"2024-03-01","open":1,"high":1,"low":1,"close":1,"volume":1},
		{"date":"2024-03-01","open":2,"high":2,"low":2,"close":2,"volume":2}
	]`)
	_, err := ParsePrices(context.Background(), recs)
	assert.ErrorIs(t, err, ErrDuplicateDate)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseSocialPosts(t *testing.T) {
	recs := decode[models.SocialRecord](t, `[
		{"id":"p1","title":"AAPL to the moon","created_utc":1709251200,"score":-3,"num_comments":7},
		{"id":"p2","title":"","created_utc":1709251200.5,"score":1,"num_comments":0}
	]`)

	posts, err := ParseSocialPosts(context.Background(), recs)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), posts[0].CreatedAt)
	assert.Equal(t, -3, posts[0].Score)
	assert.Equal(t, "", posts[1].Title)
	assert.Equal(t, 500*time.Millisecond, posts[1].CreatedAt.Sub(posts[0].CreatedAt))
}

func TestParseSocialPosts_MissingTitle(t *testing.T) {
	recs := decode[models.SocialRecord](t, `[{"id":"p1","created_utc":1709251200,"score":1,"num_comments":0}]`)
	_, err := ParseSocialPosts(context.Background(), recs)

	var mc *MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, "title", mc.Column)
	assert.Equal(t, TableSocial, mc.Table)
}

func TestParseTrends(t *testing.T) {
	recs := decode[models.TrendRecord](t, `[
		{"query":"AAPL","date":"2024-03-01","interest":50},
		{"query":"AAPL","date":"2024-03-02","interest":null},
		{"query":"AAPL","date":"2024-03-01","interest":60,"is_partial":true}
	]`)

	points, err := ParseTrends(context.Background(), recs)
	require.NoError(t, err)
	require.Len(t, points, 3)
	require.NotNil(t, points[0].Interest)
	assert.Equal(t, 50, *points[0].Interest)
	assert.False(t, points[0].IsPartial)
	assert.Nil(t, points[1].Interest)
	assert.True(t, points[2].IsPartial)
	assert.Equal(t, 60, *points[2].Interest, "fetch order is preserved")
}

func TestParseTrends_Invalid(t *testing.T) {
	_, err := ParseTrends(context.Background(), decode[models.TrendRecord](t, `[{"query":"AAPL","date":"2024-03-01","interest":140}]`))
	var iv *InvalidValueError
	require.True(t, errors.As(err, &iv))
	assert.Equal(t, "interest", iv.Column)

	_, err = ParseTrends(context.Background(), decode[models.TrendRecord](t, `[{"date":"2024-03-01","interest":40}]`))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestParseTrends_MissingInterestColumn(t *testing.T) {
	recs := decode[models.TrendRecord](t, `[
		{"query":"AAPL","date":"2024-03-01"},
		{"query":"AAPL","date":"2024-03-02"}
	]`)

	points, err := ParseTrends(context.Background(), recs)
	assert.Nil(t, points)
	var mc *MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, TableTrends, mc.Table)
	assert.Equal(t, "interest", mc.Column)
	assert.Equal(t, 0, mc.Row)
}
