// Package ingest is the input boundary: it validates raw source records
// against their field schema and converts them into domain values.
package ingest

import (
	"context"
	"fmt"
	"sort"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
	"github.com/rakeshcr92/InsiderNet/pkg/util"
)

// Table names used in boundary errors.
const (
	TablePrices = "prices"
	TableSocial = "social"
	TableTrends = "trends"
)

// ParsePrices validates price records and returns bars sorted ascending by
// date. Two records on the same date are rejected.
func ParsePrices(ctx context.Context, recs []models.PriceRecord) ([]models.PriceBar, error) {
	bars := make([]models.PriceBar, 0, len(recs))
	for i := range recs {
		rec := &recs[i]
		if err := Struct(ctx, TablePrices, i, rec); err != nil {
			return nil, err
		}
		day, err := util.ParseDay(*rec.Date)
		if err != nil {
			return nil, &InvalidValueError{Table: TablePrices, Column: "date", Row: i, Message: err.Error(), Err: err}
		}
		bars = append(bars, models.PriceBar{
			Date:      day,
			Open:      *rec.Open,
			High:      *rec.High,
			Low:       *rec.Low,
			Close:     *rec.Close,
			Volume:    *rec.Volume,
			Dividends: deref(rec.Dividends),
			Splits:    deref(rec.Splits),
		})
	}

	sort.SliceStable(bars, func(a, b int) bool { return bars[a].Date.Before(bars[b].Date) })
	for i := 1; i < len(bars); i++ {
		if bars[i].Date.Equal(bars[i-1].Date) {
			return nil, &InvalidValueError{
				Table:   TablePrices,
				Column:  "date",
				Row:     i,
				Message: fmt.Sprintf("duplicate date %s", bars[i].Day()),
				Err:     ErrDuplicateDate,
			}
		}
	}
	return bars, nil
}

// ParseSocialPosts validates social records. created_utc is epoch seconds and
// may carry a fractional part.
func ParseSocialPosts(ctx context.Context, recs []models.SocialRecord) ([]models.SocialPost, error) {
	posts := make([]models.SocialPost, 0, len(recs))
	for i := range recs {
		rec := &recs[i]
		if err := Struct(ctx, TableSocial, i, rec); err != nil {
			return nil, err
		}
		posts = append(posts, models.SocialPost{
			ID:          *rec.ID,
			CreatedAt:   util.FromUnix(*rec.CreatedUTC),
			Title:       *rec.Title,
			Score:       *rec.Score,
			NumComments: *rec.NumComments,
		})
	}
	return posts, nil
}

// ParseTrends validates trend records, keeping their order since it is the
// fetch order used to resolve duplicate dates. A null interest is an absent
// observation; a record without the interest column is rejected.
func ParseTrends(ctx context.Context, recs []models.TrendRecord) ([]models.TrendPoint, error) {
	points := make([]models.TrendPoint, 0, len(recs))
	for i := range recs {
		rec := &recs[i]
		if err := Struct(ctx, TableTrends, i, rec); err != nil {
			return nil, err
		}
		if !rec.Interest.Present {
			return nil, &MissingColumnError{Table: TableTrends, Column: "interest", Row: i}
		}
		day, err := util.ParseDay(*rec.Date)
		if err != nil {
			return nil, &InvalidValueError{Table: TableTrends, Column: "date", Row: i, Message: err.Error(), Err: err}
		}
		p := models.TrendPoint{Query: *rec.Query, Date: day, Interest: rec.Interest.Ptr()}
		if rec.IsPartial != nil {
			p.IsPartial = *rec.IsPartial
		}
		points = append(points, p)
	}
	return points, nil
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
