package repository

import (
	"context"
	"time"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
)

// SourceStore provides read-only access to the materialized raw records of a
// ticker. Implementations return records unvalidated; the ingest boundary
// checks them.
type SourceStore interface {
	Prices(ctx context.Context, ticker string) ([]models.PriceRecord, error)
	SocialPosts(ctx context.Context, ticker string) ([]models.SocialRecord, error)
	Trends(ctx context.Context, ticker string) ([]models.TrendRecord, error)
}

// TableSink persists the feature and label tables of a run.
type TableSink interface {
	Init(ctx context.Context) error // ensure tables exist
	WriteFeatures(ctx context.Context, runID, ticker string, t models.FeatureTable) error
	WriteLabels(ctx context.Context, runID, ticker string, t models.LabelTable) error
	Close() error
}

// Publisher emits finished rows downstream.
type Publisher interface {
	PublishResult(ctx context.Context, res *models.PipelineResult) error
	Close() error
}

// ResultCache memoizes pipeline results by input fingerprint.
type ResultCache interface {
	Get(ctx context.Context, key string) (*models.PipelineResult, bool, error)
	Set(ctx context.Context, key string, res *models.PipelineResult, ttl time.Duration) error
}

type Metrics interface {
	RecordRun(ticker, status string)
	RecordRows(stage string, n int)
	RecordDegraded(stage string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
