package features

import (
	"strings"
	"sync"

	"github.com/jonreiter/govader"
)

var (
	vaderOnce     sync.Once
	vaderAnalyzer *govader.SentimentIntensityAnalyzer
)

// VaderScorer scores text with the VADER compound score. The lexicon is
// loaded once and shared; scoring only reads it.
type VaderScorer struct {
	sia *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	vaderOnce.Do(func() {
		vaderAnalyzer = govader.NewSentimentIntensityAnalyzer()
	})
	return &VaderScorer{sia: vaderAnalyzer}
}

func (s *VaderScorer) Polarity(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return s.sia.PolarityScores(text).Compound
}
