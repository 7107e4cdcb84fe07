package features

import (
	"fmt"
	"sort"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
	"github.com/rakeshcr92/InsiderNet/pkg/util"
)

type TrendOptions struct {
	// Query keeps only points of this query. Empty means all points must
	// share a single query.
	Query string
	// SkipPartial drops points flagged as partial days before deduplication.
	SkipPartial bool
}

// ComputeTrendFeatures turns raw search-interest points into momentum and
// spike features, one row per date. Duplicate dates from overlapping fetch
// windows resolve to the point that comes last in the input slice. The first
// date has no momentum and is dropped.
func ComputeTrendFeatures(points []models.TrendPoint, opts TrendOptions) (models.TrendTable, error) {
	if len(points) == 0 {
		return models.TrendTable{DateOnly: true}, nil
	}

	if opts.Query == "" {
		if qs := distinctQueries(points); len(qs) > 1 {
			return models.TrendTable{}, fmt.Errorf("%w: %v", ErrMixedQueries, qs)
		}
	}

	latest := make(map[string]models.TrendPoint)
	for _, p := range points {
		if opts.Query != "" && p.Query != opts.Query {
			continue
		}
		if p.Interest == nil {
			continue
		}
		if opts.SkipPartial && p.IsPartial {
			continue
		}
		latest[util.FormatDay(p.Date)] = p
	}

	days := make([]string, 0, len(latest))
	for d := range latest {
		days = append(days, d)
	}
	sort.Strings(days)

	interest := make([]float64, len(days))
	for i, d := range days {
		interest[i] = float64(*latest[d].Interest)
	}

	if len(days) < 2 {
		return models.TrendTable{}, nil
	}

	rows := make([]models.TrendRow, 0, len(days)-1)
	for t := 1; t < len(days); t++ {
		spike := 0
		if t >= SpikeWindow-1 {
			spike = boolInt(interest[t] > trailingMean(interest, t, SpikeWindow))
		}
		rows = append(rows, models.TrendRow{
			Date: days[t],
			TrendFeatures: models.TrendFeatures{
				Interest:      interest[t],
				IsPartial:     boolInt(latest[days[t]].IsPartial),
				TrendMomentum: interest[t] - interest[t-1],
				InterestSpike: spike,
			},
		})
	}
	return models.TrendTable{Rows: rows}, nil
}

func distinctQueries(points []models.TrendPoint) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range points {
		if !seen[p.Query] {
			seen[p.Query] = true
			out = append(out, p.Query)
		}
	}
	sort.Strings(out)
	return out
}

// trailingMean averages x[t-window+1 .. t].
func trailingMean(x []float64, t, window int) float64 {
	sum := 0.0
	for i := t - window + 1; i <= t; i++ {
		sum += x[i]
	}
	return sum / float64(window)
}
