package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
)

type stubScorer map[string]float64

func (s stubScorer) Polarity(text string) float64 { return s[text] }

func TestSentimentEngine_EmptyInputKeepsSchema(t *testing.T) {
	table := NewSentimentEngine(nil).Aggregate(nil)

	assert.Empty(t, table.Rows)
	assert.Equal(t, []string{"date", "reddit_mentions", "avg_upvotes", "avg_comments", "avg_sentiment", "sentiment_std"}, table.Columns())
}

func TestSentimentEngine_Aggregate(t *testing.T) {
	scorer := stubScorer{"up": 0.5, "down": -0.3, "flat": 0, "   ": 0.9}
	ny := time.FixedZone("EST", -5*3600)
	posts := []models.SocialPost{
		{ID: "a", CreatedAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC), Title: "up", Score: 10, NumComments: 4},
		{ID: "b", CreatedAt: time.Date(2024, 3, 1, 23, 30, 0, 0, ny), Title: "down", Score: 20, NumComments: 2},
		{ID: "c", CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), Title: "   ", Score: 3, NumComments: 1},
	}

	table := NewSentimentEngine(scorer).Aggregate(posts)
	require.Len(t, table.Rows, 2)

	// c stays on 03-01; b lands on 03-02 in UTC
	first, second := table.Rows[0], table.Rows[1]
	assert.Equal(t, "2024-03-01", first.Date)
	assert.Equal(t, 1, first.RedditMentions)
	assert.Equal(t, 3.0, first.AvgUpvotes)
	assert.Equal(t, 0.0, first.AvgSentiment, "blank title scores 0")
	assert.Equal(t, 0.0, first.SentimentStd, "single post has no spread")

	assert.Equal(t, "2024-03-02", second.Date)
	assert.Equal(t, 2, second.RedditMentions)
	assert.Equal(t, 15.0, second.AvgUpvotes)
	assert.Equal(t, 3.0, second.AvgComments)
	assert.InDelta(t, 0.1, second.AvgSentiment, 1e-12)
	assert.InDelta(t, math.Sqrt(0.32), second.SentimentStd, 1e-12)
}

func TestSentimentEngine_ClampsScorer(t *testing.T) {
	scorer := stubScorer{"wild": 7}
	table := NewSentimentEngine(scorer).Aggregate([]models.SocialPost{
		{ID: "x", CreatedAt: day0, Title: "wild"},
	})
	require.Len(t, table.Rows, 1)
	assert.Equal(t, 1.0, table.Rows[0].AvgSentiment)
}

func TestVaderScorer(t *testing.T) {
	s := NewVaderScorer()

	assert.Equal(t, 0.0, s.Polarity(""))
	assert.Equal(t, 0.0, s.Polarity("the quarterly report is out"))
	assert.Greater(t, s.Polarity("Great earnings, strong growth"), 0.0)
	assert.Less(t, s.Polarity("Terrible guidance, awful quarter"), 0.0)
	assert.Less(t, s.Polarity("not good"), 0.0)
	assert.Greater(t, s.Polarity("very good"), s.Polarity("good"))

	for _, text := range []string{"extremely amazing amazing!!!", "absolutely awful fraud scam"} {
		p := s.Polarity(text)
		assert.GreaterOrEqual(t, p, -1.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestSentimentEngine_DefaultScorer(t *testing.T) {
	e := NewSentimentEngine(nil)
	_, ok := e.scorer.(*VaderScorer)
	assert.True(t, ok)
}
