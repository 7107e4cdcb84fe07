package features

import (
	"time"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// alternatingCloses repeats 100, 101, 99.
func alternatingCloses(n int) []float64 {
	pattern := []float64{100, 101, 99}
	out := make([]float64, n)
	for i := range out {
		out[i] = pattern[i%3]
	}
	return out
}

// barsFromCloses builds consecutive daily bars. Each bar opens half a point
// above the previous close so gaps are predictable.
func barsFromCloses(closes []float64) []models.PriceBar {
	bars := make([]models.PriceBar, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1] + 0.5
		}
		bars[i] = models.PriceBar{
			Date:   day0.AddDate(0, 0, i),
			Open:   open,
			High:   c + 2,
			Low:    c - 2,
			Close:  c,
			Volume: 1000 + float64(i*10),
		}
	}
	return bars
}

func intPtr(v int) *int { return &v }
