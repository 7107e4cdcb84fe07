package models

import "time"

// PipelineParams are the per-run knobs. Lookahead and VolatilityThreshold are
// always explicit; the rest are optional.
type PipelineParams struct {
	Ticker                  string
	Lookahead               int
	VolatilityThreshold     float64
	VolatilityBasis         string // "absolute" or "relative"
	TrendQuery              string
	HighVolatilityThreshold float64
	SkipPartialTrends       bool
}

// PipelineInput is the raw material of one run, already validated.
type PipelineInput struct {
	Prices []PriceBar
	Posts  []SocialPost
	Trends []TrendPoint
}

// PipelineResult is the output of one run. Errors lists degraded optional
// sources keyed by stage name.
type PipelineResult struct {
	RunID     string
	Ticker    string
	CreatedAt time.Time
	Features  FeatureTable
	Labels    LabelTable
	Labeled   []LabeledRow
	Errors    map[string]string
	Cached    bool
}
