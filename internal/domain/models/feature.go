package models

// Column schemas. Every table exposes a fixed column list so sinks never have
// to guess which fields exist.
var (
	PriceColumns = []string{
		"open", "high", "low", "close", "volume", "dividends", "splits",
		"daily_return", "price_change_pct", "moving_avg_5", "rolling_std_3",
		"volume_change", "volatility", "volatility_spike", "gap_up", "gap_down",
		"high_volatility", "rsi_14", "macd", "macd_signal", "macd_hist",
		"bollinger_high", "bollinger_low", "bollinger_bandwidth",
	}
	SentimentColumns = []string{
		"reddit_mentions", "avg_upvotes", "avg_comments", "avg_sentiment", "sentiment_std",
	}
	TrendColumns = []string{
		"interest", "is_partial", "trend_momentum", "interest_spike",
	}
	CalendarColumns = []string{
		"day_of_week", "is_weekend", "month",
	}
)

// PriceFeatures is a price bar extended with derived technical indicators.
type PriceFeatures struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Dividends float64
	Splits    float64

	DailyReturn     float64
	PriceChangePct  float64
	MovingAvg5      float64
	RollingStd3     float64
	VolumeChange    float64
	Volatility      float64
	VolatilitySpike int
	GapUp           int
	GapDown         int
	// HighVolatility is the static per-row volatility flag. It is a feature,
	// never a label, and stays 0 unless a threshold is configured.
	HighVolatility int

	RSI14              float64
	MACD               float64
	MACDSignal         float64
	MACDHist           float64
	BollingerHigh      float64
	BollingerLow       float64
	BollingerBandwidth float64
}

func (f PriceFeatures) Values() []any {
	return []any{
		f.Open, f.High, f.Low, f.Close, f.Volume, f.Dividends, f.Splits,
		f.DailyReturn, f.PriceChangePct, f.MovingAvg5, f.RollingStd3,
		f.VolumeChange, f.Volatility, f.VolatilitySpike, f.GapUp, f.GapDown,
		f.HighVolatility, f.RSI14, f.MACD, f.MACDSignal, f.MACDHist,
		f.BollingerHigh, f.BollingerLow, f.BollingerBandwidth,
	}
}

type SentimentFeatures struct {
	RedditMentions int
	AvgUpvotes     float64
	AvgComments    float64
	AvgSentiment   float64
	SentimentStd   float64
}

func (f SentimentFeatures) Values() []any {
	return []any{f.RedditMentions, f.AvgUpvotes, f.AvgComments, f.AvgSentiment, f.SentimentStd}
}

type TrendFeatures struct {
	Interest      float64
	IsPartial     int
	TrendMomentum float64
	InterestSpike int
}

func (f TrendFeatures) Values() []any {
	return []any{f.Interest, f.IsPartial, f.TrendMomentum, f.InterestSpike}
}

type CalendarFeatures struct {
	DayOfWeek int // 0=Monday .. 6=Sunday
	IsWeekend int
	Month     int
}

func (f CalendarFeatures) Values() []any {
	return []any{f.DayOfWeek, f.IsWeekend, f.Month}
}

// Per-engine rows keyed by YYYY-MM-DD.

type PriceRow struct {
	Date string
	PriceFeatures
}

type SentimentRow struct {
	Date string
	SentimentFeatures
}

type TrendRow struct {
	Date string
	TrendFeatures
}

type CalendarRow struct {
	Date string
	CalendarFeatures
}

type PriceTable struct {
	Rows []PriceRow
}

func (PriceTable) Columns() []string { return withDate(PriceColumns) }

type SentimentTable struct {
	Rows []SentimentRow
}

func (SentimentTable) Columns() []string { return withDate(SentimentColumns) }

// TrendTable reports only the date column when it was built from no input.
type TrendTable struct {
	Rows     []TrendRow
	DateOnly bool
}

func (t TrendTable) Columns() []string {
	if t.DateOnly {
		return []string{"date"}
	}
	return withDate(TrendColumns)
}

type CalendarTable struct {
	Rows []CalendarRow
}

func (CalendarTable) Columns() []string { return withDate(CalendarColumns) }

// FeatureRow is one merged row on the price date axis.
type FeatureRow struct {
	Date      string
	Price     PriceFeatures
	Sentiment SentimentFeatures
	Trend     TrendFeatures
	Calendar  CalendarFeatures
}

func (r FeatureRow) Values() []any {
	out := make([]any, 0, len(FeatureColumns()))
	out = append(out, r.Date)
	out = append(out, r.Price.Values()...)
	out = append(out, r.Sentiment.Values()...)
	out = append(out, r.Trend.Values()...)
	return append(out, r.Calendar.Values()...)
}

// Record returns the row as a flat column->value map.
func (r FeatureRow) Record() map[string]any {
	return zip(FeatureColumns(), r.Values())
}

// FeatureColumns is the merged schema: date, then price, sentiment, trend and calendar columns.
func FeatureColumns() []string {
	cols := make([]string, 0, 1+len(PriceColumns)+len(SentimentColumns)+len(TrendColumns)+len(CalendarColumns))
	cols = append(cols, "date")
	cols = append(cols, PriceColumns...)
	cols = append(cols, SentimentColumns...)
	cols = append(cols, TrendColumns...)
	return append(cols, CalendarColumns...)
}

type FeatureTable struct {
	Rows []FeatureRow
}

func (FeatureTable) Columns() []string { return FeatureColumns() }

func withDate(cols []string) []string {
	return append([]string{"date"}, cols...)
}

func zip(cols []string, vals []any) map[string]any {
	m := make(map[string]any, len(cols))
	for i, c := range cols {
		m[c] = vals[i]
	}
	return m
}
