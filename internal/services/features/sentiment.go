package features

import (
	"math"
	"sort"
	"strings"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
	"github.com/rakeshcr92/InsiderNet/internal/domain/service"
	"github.com/rakeshcr92/InsiderNet/pkg/util"
)

// SentimentEngine aggregates social posts into one row per UTC day.
type SentimentEngine struct {
	scorer service.SentimentScorer
}

// NewSentimentEngine uses the VADER scorer when scorer is nil.
func NewSentimentEngine(scorer service.SentimentScorer) *SentimentEngine {
	if scorer == nil {
		scorer = NewVaderScorer()
	}
	return &SentimentEngine{scorer: scorer}
}

type dayAgg struct {
	count      int
	upvotes    float64
	comments   float64
	sentiments []float64
}

// Aggregate never fails: an empty input gives an empty table that still
// reports the full column schema.
func (e *SentimentEngine) Aggregate(posts []models.SocialPost) models.SentimentTable {
	if len(posts) == 0 {
		return models.SentimentTable{}
	}

	days := make(map[string]*dayAgg)
	for _, p := range posts {
		day := util.FormatDay(p.CreatedAt)
		agg, ok := days[day]
		if !ok {
			agg = &dayAgg{}
			days[day] = agg
		}
		agg.count++
		agg.upvotes += float64(p.Score)
		agg.comments += float64(p.NumComments)
		agg.sentiments = append(agg.sentiments, e.polarity(p.Title))
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]models.SentimentRow, 0, len(keys))
	for _, day := range keys {
		agg := days[day]
		n := float64(agg.count)
		mean, std := meanStd(agg.sentiments)
		rows = append(rows, models.SentimentRow{
			Date: day,
			SentimentFeatures: models.SentimentFeatures{
				RedditMentions: agg.count,
				AvgUpvotes:     agg.upvotes / n,
				AvgComments:    agg.comments / n,
				AvgSentiment:   mean,
				SentimentStd:   std,
			},
		})
	}
	return models.SentimentTable{Rows: rows}
}

func (e *SentimentEngine) polarity(title string) float64 {
	if strings.TrimSpace(title) == "" {
		return 0
	}
	p := e.scorer.Polarity(title)
	if math.IsNaN(p) {
		return 0
	}
	return clamp(p, -1, 1)
}

// meanStd returns the mean and the n-1 standard deviation; std is 0 for fewer
// than two samples.
func meanStd(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	mean := sum / float64(len(x))
	if len(x) < 2 {
		return mean, 0
	}
	ss := 0.0
	for _, v := range x {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(x)-1))
}

// clamp bounds x to [lo, hi].
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
