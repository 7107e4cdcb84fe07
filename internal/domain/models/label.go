package models

var LabelColumns = []string{
	"date", "close", "future_close", "pct_change", "binary_label", "forward_volatility", "volatility_label",
}

// LabelRow holds the forward-looking targets for one date.
type LabelRow struct {
	Date              string
	Close             float64
	FutureClose       float64
	PctChange         float64
	BinaryLabel       int
	ForwardVolatility float64
	VolatilityLabel   int
}

func (r LabelRow) Values() []any {
	return []any{r.Date, r.Close, r.FutureClose, r.PctChange, r.BinaryLabel, r.ForwardVolatility, r.VolatilityLabel}
}

func (r LabelRow) Record() map[string]any {
	return zip(LabelColumns, r.Values())
}

type LabelTable struct {
	Rows []LabelRow
}

func (LabelTable) Columns() []string { return LabelColumns }

// LabeledRow is a feature row joined with the label row of the same date.
type LabeledRow struct {
	FeatureRow
	Label LabelRow
}

// LabeledColumns drops the label's date and close, which the feature row already carries.
func LabeledColumns() []string {
	return append(FeatureColumns(), LabelColumns[2:]...)
}

func (r LabeledRow) Values() []any {
	return append(r.FeatureRow.Values(), r.Label.Values()[2:]...)
}

func (r LabeledRow) Record() map[string]any {
	return zip(LabeledColumns(), r.Values())
}

// JoinLabels inner-joins features and labels on date, keeping feature order.
func JoinLabels(features FeatureTable, labels LabelTable) []LabeledRow {
	byDate := make(map[string]LabelRow, len(labels.Rows))
	for _, l := range labels.Rows {
		byDate[l.Date] = l
	}
	out := make([]LabeledRow, 0, len(features.Rows))
	for _, f := range features.Rows {
		l, ok := byDate[f.Date]
		if !ok {
			continue
		}
		out = append(out, LabeledRow{FeatureRow: f, Label: l})
	}
	return out
}
