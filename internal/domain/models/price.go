package models

import (
	"time"

	"github.com/rakeshcr92/InsiderNet/pkg/util"
)

// PriceBar is one daily OHLCV observation for a ticker.
type PriceBar struct {
	Date      time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Dividends float64
	Splits    float64
}

// Day returns the bar's calendar date as YYYY-MM-DD.
func (b PriceBar) Day() string {
	return util.FormatDay(b.Date)
}

// Closes extracts the close column.
func Closes(bars []PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
