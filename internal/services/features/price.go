package features

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
)

// Indicator windows.
const (
	RSIPeriod       = 14
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignal      = 9
	BollingerPeriod = 20
	BollingerDev    = 2.0
	SpikeWindow     = 5

	// PriceWarmup is the number of leading rows dropped: the MACD signal line
	// needs MACDSlow-1 bars for the slow EMA plus MACDSignal-1 more.
	PriceWarmup = MACDSlow - 1 + MACDSignal - 1
)

type PriceOptions struct {
	// HighVolatilityThreshold enables the static high_volatility flag when > 0.
	HighVolatilityThreshold float64
}

// ComputePriceFeatures derives technical indicators from daily bars sorted
// ascending by date. Warm-up rows are dropped so every emitted row is complete;
// series too short for any complete row yield an empty table.
func ComputePriceFeatures(bars []models.PriceBar, opts PriceOptions) (models.PriceTable, error) {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return models.PriceTable{}, fmt.Errorf("%w: row %d (%s) after %s",
				ErrUnsortedSeries, i, bars[i].Day(), bars[i-1].Day())
		}
	}

	n := len(bars)
	if n <= PriceWarmup {
		return models.PriceTable{}, nil
	}

	closes := models.Closes(bars)
	vols := make([]float64, n)
	for i, b := range bars {
		vols[i] = volatility(b)
	}

	ma5 := talib.Sma(closes, 5)
	std3 := sampleStd(closes, 3)
	volMean := talib.Sma(vols, SpikeWindow)
	rsi := talib.Rsi(closes, RSIPeriod)
	macdLine, signal, hist := computeMACD(closes)
	upper, middle, lower := talib.BBands(closes, BollingerPeriod, BollingerDev, BollingerDev, talib.SMA)

	rows := make([]models.PriceRow, 0, n-PriceWarmup)
	for t := PriceWarmup; t < n; t++ {
		b, prev := bars[t], bars[t-1]
		f := models.PriceFeatures{
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
			Dividends: b.Dividends,
			Splits:    b.Splits,

			DailyReturn:    ratioChange(b.Close, prev.Close),
			PriceChangePct: safeDiv(b.Close-b.Open, b.Open),
			MovingAvg5:     ma5[t],
			RollingStd3:    std3[t],
			VolumeChange:   ratioChange(b.Volume, prev.Volume),
			Volatility:     vols[t],

			VolatilitySpike: boolInt(vols[t] > volMean[t]),
			GapUp:           boolInt(b.Open > prev.Close),
			GapDown:         boolInt(b.Open < prev.Close),

			RSI14:              rsi[t],
			MACD:               macdLine[t],
			MACDSignal:         signal[t],
			MACDHist:           hist[t],
			BollingerHigh:      upper[t],
			BollingerLow:       lower[t],
			BollingerBandwidth: safeDiv(upper[t]-lower[t], middle[t]),
		}
		if opts.HighVolatilityThreshold > 0 {
			f.HighVolatility = boolInt(f.Volatility > opts.HighVolatilityThreshold)
		}
		rows = append(rows, models.PriceRow{Date: b.Day(), PriceFeatures: f})
	}
	return models.PriceTable{Rows: rows}, nil
}

// computeMACD builds MACD(12,26,9) from SMA-seeded EMAs. The signal EMA starts at the
// first defined MACD value, so the signal and histogram are defined from index
// PriceWarmup onwards. Caller guarantees len(closes) > PriceWarmup.
func computeMACD(closes []float64) (line, signal, hist []float64) {
	n := len(closes)
	fast := talib.Ema(closes, MACDFast)
	slow := talib.Ema(closes, MACDSlow)

	line = make([]float64, n)
	for i := MACDSlow - 1; i < n; i++ {
		line[i] = fast[i] - slow[i]
	}

	signal = make([]float64, n)
	copy(signal[MACDSlow-1:], talib.Ema(line[MACDSlow-1:], MACDSignal))

	hist = make([]float64, n)
	for i := PriceWarmup; i < n; i++ {
		hist[i] = line[i] - signal[i]
	}
	return line, signal, hist
}

// sampleStd is the trailing n-1 denominator standard deviation; talib's
// StdDev uses the population form.
func sampleStd(x []float64, period int) []float64 {
	out := talib.StdDev(x, period, 1)
	scale := math.Sqrt(float64(period) / float64(period-1))
	for i := range out {
		out[i] *= scale
	}
	return out
}

func volatility(b models.PriceBar) float64 {
	return safeDiv(b.High-b.Low, b.Close)
}

// ratioChange is cur/prev - 1, or 0 when prev is 0.
func ratioChange(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return cur/prev - 1
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
