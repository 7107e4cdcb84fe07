package features

import "github.com/rakeshcr92/InsiderNet/internal/domain/models"

// Merge left-joins sentiment, trend and calendar rows onto the price date
// axis. Dates missing from a source are zero-filled, and dates absent from
// the price table never appear. Any table with a repeated date is rejected.
func Merge(price models.PriceTable, sentiment models.SentimentTable, trend models.TrendTable, calendar models.CalendarTable) (models.FeatureTable, error) {
	priceDates := make([]string, len(price.Rows))
	for i, r := range price.Rows {
		priceDates[i] = r.Date
	}
	if err := checkUnique("price", priceDates); err != nil {
		return models.FeatureTable{}, err
	}

	sent, err := index("sentiment", sentiment.Rows, func(r models.SentimentRow) string { return r.Date })
	if err != nil {
		return models.FeatureTable{}, err
	}
	tr, err := index("trend", trend.Rows, func(r models.TrendRow) string { return r.Date })
	if err != nil {
		return models.FeatureTable{}, err
	}
	cal, err := index("calendar", calendar.Rows, func(r models.CalendarRow) string { return r.Date })
	if err != nil {
		return models.FeatureTable{}, err
	}

	rows := make([]models.FeatureRow, len(price.Rows))
	for i, p := range price.Rows {
		rows[i] = models.FeatureRow{
			Date:      p.Date,
			Price:     p.PriceFeatures,
			Sentiment: sent[p.Date].SentimentFeatures,
			Trend:     tr[p.Date].TrendFeatures,
			Calendar:  cal[p.Date].CalendarFeatures,
		}
	}
	return models.FeatureTable{Rows: rows}, nil
}

func index[R any](table string, rows []R, key func(R) string) (map[string]R, error) {
	m := make(map[string]R, len(rows))
	for _, r := range rows {
		k := key(r)
		if _, dup := m[k]; dup {
			return nil, &DuplicateKeyError{Table: table, Date: k}
		}
		m[k] = r
	}
	return m, nil
}

func checkUnique(table string, dates []string) error {
	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		if _, dup := seen[d]; dup {
			return &DuplicateKeyError{Table: table, Date: d}
		}
		seen[d] = struct{}{}
	}
	return nil
}
