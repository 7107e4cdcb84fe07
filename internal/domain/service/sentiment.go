package service

// SentimentScorer scores free text. Polarity must lie in [-1, 1] and return 0
// for neutral or empty text.
type SentimentScorer interface {
	Polarity(text string) float64
}
