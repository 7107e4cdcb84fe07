package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
)

func TestComputePriceFeatures_WarmupDropped(t *testing.T) {
	bars := barsFromCloses(alternatingCloses(40))

	table, err := ComputePriceFeatures(bars, PriceOptions{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 40-PriceWarmup)
	assert.Equal(t, 33, PriceWarmup)
	assert.Equal(t, bars[33].Day(), table.Rows[0].Date)
	assert.Equal(t, bars[39].Day(), table.Rows[len(table.Rows)-1].Date)

	for _, row := range table.Rows {
		for i, v := range row.Values() {
			if f, ok := v.(float64); ok {
				assert.False(t, math.IsNaN(f) || math.IsInf(f, 0), "%s on %s is %v", models.PriceColumns[i], row.Date, f)
			}
		}
	}
}

func TestComputePriceFeatures_ShortSeries(t *testing.T) {
	for _, n := range []int{0, 1, 2, PriceWarmup} {
		table, err := ComputePriceFeatures(barsFromCloses(alternatingCloses(n)), PriceOptions{})
		require.NoError(t, err)
		assert.Empty(t, table.Rows, "n=%d", n)
	}

	table, err := ComputePriceFeatures(barsFromCloses(alternatingCloses(PriceWarmup+1)), PriceOptions{})
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

func TestComputePriceFeatures_Unsorted(t *testing.T) {
	bars := barsFromCloses(alternatingCloses(40))
	bars[10], bars[11] = bars[11], bars[10]

	_, err := ComputePriceFeatures(bars, PriceOptions{})
	assert.ErrorIs(t, err, ErrUnsortedSeries)

	bars = barsFromCloses(alternatingCloses(40))
	bars[5].Date = bars[4].Date
	_, err = ComputePriceFeatures(bars, PriceOptions{})
	assert.ErrorIs(t, err, ErrUnsortedSeries)
}

func TestComputePriceFeatures_RollingValues(t *testing.T) {
	closes := make([]float64, 45)
	for i := range closes {
		closes[i] = 50 + float64(i) + 3*math.Sin(float64(i))
	}
	bars := barsFromCloses(closes)

	table, err := ComputePriceFeatures(bars, PriceOptions{})
	require.NoError(t, err)

	for k, row := range table.Rows {
		tt := PriceWarmup + k
		c := closes

		assert.InDelta(t, c[tt]/c[tt-1]-1, row.DailyReturn, 1e-12)
		assert.InDelta(t, (c[tt]-bars[tt].Open)/bars[tt].Open, row.PriceChangePct, 1e-12)
		assert.InDelta(t, (c[tt]+c[tt-1]+c[tt-2]+c[tt-3]+c[tt-4])/5, row.MovingAvg5, 1e-9)

		mean3 := (c[tt] + c[tt-1] + c[tt-2]) / 3
		ss := math.Pow(c[tt]-mean3, 2) + math.Pow(c[tt-1]-mean3, 2) + math.Pow(c[tt-2]-mean3, 2)
		assert.InDelta(t, math.Sqrt(ss/2), row.RollingStd3, 1e-6)

		assert.InDelta(t, bars[tt].Volume/bars[tt-1].Volume-1, row.VolumeChange, 1e-12)
		assert.InDelta(t, 4/c[tt], row.Volatility, 1e-12)

		sum, sumSq := 0.0, 0.0
		for i := tt - 19; i <= tt; i++ {
			sum += c[i]
			sumSq += c[i] * c[i]
		}
		sma := sum / 20
		std := math.Sqrt(sumSq/20 - sma*sma)
		assert.InDelta(t, sma+2*std, row.BollingerHigh, 1e-6)
		assert.InDelta(t, sma-2*std, row.BollingerLow, 1e-6)
		assert.InDelta(t, 4*std/sma, row.BollingerBandwidth, 1e-6)

		assert.InDelta(t, row.MACD-row.MACDSignal, row.MACDHist, 1e-12)
		assert.GreaterOrEqual(t, row.RSI14, 0.0)
		assert.LessOrEqual(t, row.RSI14, 100.0)
	}
}

func TestComputePriceFeatures_MACDMatchesSeededEMA(t *testing.T) {
	closes := make([]float64, 50)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i)/4) + float64(i)/10
	}
	table, err := ComputePriceFeatures(barsFromCloses(closes), PriceOptions{})
	require.NoError(t, err)

	ema := func(x []float64, period int) []float64 {
		out := make([]float64, len(x))
		k := 2 / float64(period+1)
		seed := 0.0
		for i := 0; i < period; i++ {
			seed += x[i]
		}
		out[period-1] = seed / float64(period)
		for i := period; i < len(x); i++ {
			out[i] = (x[i]-out[i-1])*k + out[i-1]
		}
		return out
	}
	fast, slow := ema(closes, 12), ema(closes, 26)
	line := make([]float64, 0, len(closes)-25)
	for i := 25; i < len(closes); i++ {
		line = append(line, fast[i]-slow[i])
	}
	signal := ema(line, 9)

	for k, row := range table.Rows {
		i := PriceWarmup + k
		assert.InDelta(t, fast[i]-slow[i], row.MACD, 1e-9)
		assert.InDelta(t, signal[i-25], row.MACDSignal, 1e-9)
	}
}

func TestComputePriceFeatures_RSIWilder(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + 4*math.Cos(float64(i)/3) + float64(i%4)
	}
	table, err := ComputePriceFeatures(barsFromCloses(closes), PriceOptions{})
	require.NoError(t, err)

	gain, loss := 0.0, 0.0
	for i := 1; i <= 14; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	gain, loss = gain/14, loss/14
	rsi := make([]float64, len(closes))
	rsi[14] = 100 * gain / (gain + loss)
	for i := 15; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		g, l := 0.0, 0.0
		if d > 0 {
			g = d
		} else {
			l = -d
		}
		gain = (gain*13 + g) / 14
		loss = (loss*13 + l) / 14
		rsi[i] = 100 * gain / (gain + loss)
	}

	for k, row := range table.Rows {
		assert.InDelta(t, rsi[PriceWarmup+k], row.RSI14, 1e-6)
	}
}

func TestComputePriceFeatures_GapFlags(t *testing.T) {
	bars := barsFromCloses(alternatingCloses(40))
	bars[34].Open = bars[33].Close     // flat open
	bars[35].Open = bars[34].Close - 1 // gap down

	table, err := ComputePriceFeatures(bars, PriceOptions{})
	require.NoError(t, err)

	for _, row := range table.Rows {
		assert.False(t, row.GapUp == 1 && row.GapDown == 1, "gap flags overlap on %s", row.Date)
	}
	assert.Equal(t, 1, table.Rows[0].GapUp)
	assert.Equal(t, 0, table.Rows[0].GapDown)
	assert.Equal(t, 0, table.Rows[1].GapUp)
	assert.Equal(t, 0, table.Rows[1].GapDown)
	assert.Equal(t, 0, table.Rows[2].GapUp)
	assert.Equal(t, 1, table.Rows[2].GapDown)
}

func TestComputePriceFeatures_VolatilityFlags(t *testing.T) {
	bars := barsFromCloses(alternatingCloses(40))
	bars[36].High = bars[36].Close + 10

	table, err := ComputePriceFeatures(bars, PriceOptions{HighVolatilityThreshold: 0.05})
	require.NoError(t, err)

	spiked := table.Rows[36-PriceWarmup]
	assert.Equal(t, 1, spiked.VolatilitySpike)
	assert.Equal(t, 1, spiked.HighVolatility)
	assert.Equal(t, 0, table.Rows[0].HighVolatility)

	table, err = ComputePriceFeatures(bars, PriceOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, table.Rows[36-PriceWarmup].HighVolatility)
}

func TestComputePriceFeatures_ZeroDenominators(t *testing.T) {
	bars := barsFromCloses(alternatingCloses(40))
	bars[38].Volume = 0
	bars[39].Close = 0
	bars[39].High = 2
	bars[39].Low = 0

	table, err := ComputePriceFeatures(bars, PriceOptions{})
	require.NoError(t, err)

	last := table.Rows[len(table.Rows)-1]
	assert.Equal(t, 0.0, last.Volatility)
	assert.Equal(t, 0.0, last.VolumeChange)
	assert.Equal(t, -1.0, last.DailyReturn)
}
