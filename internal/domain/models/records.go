package models

// Raw input records as they arrive from a source store. Pointer fields let
// the input boundary tell an absent field from a zero value.

type PriceRecord struct {
	Date      *string  `json:"date" validate:"required"`
	Open      *float64 `json:"open" validate:"required,gte=0"`
	High      *float64 `json:"high" validate:"required,gte=0"`
	Low       *float64 `json:"low" validate:"required,gte=0"`
	Close     *float64 `json:"close" validate:"required,gte=0"`
	Volume    *float64 `json:"volume" validate:"required,gte=0"`
	Dividends *float64 `json:"dividends" default:"0"`
	Splits    *float64 `json:"splits" default:"0"`
}

type SocialRecord struct {
	ID          *string  `json:"id" validate:"required,min=1"`
	Title       *string  `json:"title" validate:"required"`
	CreatedUTC  *float64 `json:"created_utc" validate:"required,gte=0"`
	Score       *int     `json:"score" validate:"required"`
	NumComments *int     `json:"num_comments" validate:"required,gte=0"`
}

type TrendRecord struct {
	Query     *string `json:"query" validate:"required,min=1"`
	Date      *string `json:"date" validate:"required"`
	Interest  NullInt `json:"interest" validate:"omitempty,gte=0,lte=100"`
	IsPartial *bool   `json:"is_partial" default:"false"`
}

// PipelineRequest asks the worker to run the pipeline for a ticker. Zero
// values fall back to the configured pipeline parameters.
type PipelineRequest struct {
	RequestID           string   `json:"request_id"`
	Ticker              string   `json:"ticker" validate:"required"`
	Lookahead           int      `json:"lookahead" validate:"omitempty,gte=1"`
	VolatilityThreshold *float64 `json:"volatility_threshold" validate:"omitempty,gte=0"`
	TrendQuery          string   `json:"trend_query"`
}
