package labels

import (
	"errors"
	"fmt"
	"math"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
	"github.com/rakeshcr92/InsiderNet/pkg/util"
)

var (
	ErrInvalidParameter = errors.New("invalid label parameter")
	ErrUnsortedSeries   = errors.New("price series not strictly ascending by date")
)

// minStdWindow is the smallest forward window with a defined sample std.
const minStdWindow = 2

// Precision is the number of decimals kept on pct_change and forward_volatility.
const Precision = 4

// Basis selects the unit of forward volatility.
type Basis string

const (
	// BasisAbsolute measures forward volatility in price units.
	BasisAbsolute Basis = "absolute"
	// BasisRelative divides forward volatility by the current close.
	BasisRelative Basis = "relative"
)

type Options struct {
	Lookahead           int     // trading rows ahead, positional
	VolatilityThreshold float64 // forward volatility above this is labelled 1
	Basis               Basis   // empty means BasisAbsolute
}

func (o Options) Validate() error {
	if o.Lookahead < 1 {
		return fmt.Errorf("%w: lookahead must be >= 1, got %d", ErrInvalidParameter, o.Lookahead)
	}
	if o.VolatilityThreshold < 0 || math.IsNaN(o.VolatilityThreshold) {
		return fmt.Errorf("%w: volatility threshold must be >= 0, got %v", ErrInvalidParameter, o.VolatilityThreshold)
	}
	switch o.Basis {
	case "", BasisAbsolute, BasisRelative:
	default:
		return fmt.Errorf("%w: unknown volatility basis %q", ErrInvalidParameter, o.Basis)
	}
	return nil
}

// Generate builds forward-looking labels from bars sorted ascending by date.
// Row t looks exactly Lookahead positions ahead, so calendar gaps do not
// matter. The last Lookahead rows have no future close and are dropped.
// A Lookahead of 1 leaves a single close in every forward window, which has
// no sample std, so no row is emitted.
func Generate(bars []models.PriceBar, opts Options) (models.LabelTable, error) {
	if err := opts.Validate(); err != nil {
		return models.LabelTable{}, err
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return models.LabelTable{}, fmt.Errorf("%w: row %d (%s)", ErrUnsortedSeries, i, bars[i].Day())
		}
	}

	L := opts.Lookahead
	n := len(bars) - L
	if n <= 0 || L < minStdWindow {
		return models.LabelTable{}, nil
	}

	closes := models.Closes(bars)
	rows := make([]models.LabelRow, 0, n)
	for t := 0; t < n; t++ {
		cur, future := closes[t], closes[t+L]

		pct := 0.0
		if cur != 0 {
			pct = (future - cur) / cur
		}

		fwd := sampleStd(closes[t+1 : t+L+1])
		if opts.Basis == BasisRelative {
			fwd = 0
			if cur != 0 {
				fwd = sampleStd(closes[t+1:t+L+1]) / cur
			}
		}

		rows = append(rows, models.LabelRow{
			Date:              bars[t].Day(),
			Close:             cur,
			FutureClose:       future,
			PctChange:         util.Round(pct, Precision),
			BinaryLabel:       boolInt(pct > 0),
			ForwardVolatility: util.Round(fwd, Precision),
			VolatilityLabel:   boolInt(fwd > opts.VolatilityThreshold),
		})
	}
	return models.LabelTable{Rows: rows}, nil
}

// sampleStd is the two-pass n-1 standard deviation. Callers pass at least
// minStdWindow values.
func sampleStd(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	ss := 0.0
	for _, v := range x {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(x)-1))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
