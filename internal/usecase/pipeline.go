package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
	drepo "github.com/rakeshcr92/InsiderNet/internal/domain/repository"
	"github.com/rakeshcr92/InsiderNet/internal/domain/service"
	"github.com/rakeshcr92/InsiderNet/internal/ingest"
	icache "github.com/rakeshcr92/InsiderNet/internal/service/cache"
	"github.com/rakeshcr92/InsiderNet/internal/services/features"
	"github.com/rakeshcr92/InsiderNet/internal/services/labels"
	applogger "github.com/rakeshcr92/InsiderNet/pkg/logger"
)

// Stage names used in PipelineResult.Errors and metrics.
const (
	StagePrice     = "price"
	StageSentiment = "sentiment"
	StageTrend     = "trend"
	StageCalendar  = "calendar"
	StageMerge     = "merge"
	StageLabels    = "labels"
	StageLabeled   = "labeled"
)

var ErrInvalidParams = errors.New("invalid pipeline parameters")

// Pipeline loads raw records for a ticker, runs the feature engines and the
// label generator, and hands the result to the configured sink, publisher
// and cache. Only the source is required.
type Pipeline struct {
	source  drepo.SourceStore
	sink    drepo.TableSink
	pub     drepo.Publisher
	cache   drepo.ResultCache
	metrics drepo.Metrics
	log     *applogger.Logger

	sentiment *features.SentimentEngine
	timeout   time.Duration
	cacheTTL  time.Duration
	now       func() time.Time
	newID     func() string
}

type PipelineOption func(*Pipeline)

func WithSink(s drepo.TableSink) PipelineOption { return func(p *Pipeline) { p.sink = s } }

func WithPublisher(pub drepo.Publisher) PipelineOption { return func(p *Pipeline) { p.pub = pub } }

// WithCache enables result caching for ttl. A zero ttl keeps entries until evicted.
func WithCache(c drepo.ResultCache, ttl time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.cache = c
		p.cacheTTL = ttl
	}
}

func WithMetrics(m drepo.Metrics) PipelineOption { return func(p *Pipeline) { p.metrics = m } }

func WithLogger(l *applogger.Logger) PipelineOption { return func(p *Pipeline) { p.log = l } }

// WithTimeout bounds the I/O of one run.
func WithTimeout(d time.Duration) PipelineOption { return func(p *Pipeline) { p.timeout = d } }

func WithScorer(s service.SentimentScorer) PipelineOption {
	return func(p *Pipeline) { p.sentiment = features.NewSentimentEngine(s) }
}

func NewPipeline(source drepo.SourceStore, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		source:    source,
		metrics:   noopMetrics{},
		log:       applogger.Nop(),
		sentiment: features.NewSentimentEngine(nil),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one pipeline run for params.Ticker. Failures of the optional
// sentiment and trend sources degrade the run and are listed in
// PipelineResult.Errors; price and label failures abort it.
func (p *Pipeline) Run(ctx context.Context, params models.PipelineParams) (*models.PipelineResult, error) {
	start := time.Now()
	params.Ticker = strings.ToUpper(strings.TrimSpace(params.Ticker))

	res, err := p.run(ctx, params)
	p.metrics.RecordLatency("pipeline_run", time.Since(start).Seconds())
	if err != nil {
		p.metrics.RecordRun(params.Ticker, "error")
		p.log.Error("pipeline run failed",
			applogger.String("ticker", params.Ticker),
			applogger.Error(err),
		)
		return nil, err
	}

	status := "ok"
	switch {
	case res.Cached:
		status = "cached"
	case len(res.Errors) > 0:
		status = "degraded"
	}
	p.metrics.RecordRun(params.Ticker, status)
	p.log.Info("pipeline run complete",
		applogger.String("ticker", res.Ticker),
		applogger.String("run_id", res.RunID),
		applogger.String("status", status),
		applogger.Int("features", len(res.Features.Rows)),
		applogger.Int("labels", len(res.Labels.Rows)),
		applogger.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, params models.PipelineParams) (*models.PipelineResult, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	in, degraded, err := p.load(ctx, params.Ticker)
	if err != nil {
		return nil, err
	}

	key := ""
	if p.cache != nil {
		if key, err = icache.ResultKey(params, in); err != nil {
			return nil, err
		}
		if cached, ok := p.cachedResult(ctx, key); ok {
			return cached, nil
		}
	}

	res, err := Compute(params, in, p.sentiment)
	if err != nil {
		p.metrics.RecordError("compute")
		return nil, err
	}
	for stage, msg := range degraded {
		res.Errors[stage] = msg
	}
	for stage := range res.Errors {
		p.metrics.RecordDegraded(stage)
	}
	res.RunID = p.newID()
	res.CreatedAt = p.now().UTC()
	p.recordRows(res)

	if err := p.deliver(ctx, res); err != nil {
		return nil, err
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, res, p.cacheTTL); err != nil {
			p.metrics.RecordError("cache_set")
			p.log.Warn("result cache set failed", applogger.String("ticker", res.Ticker), applogger.Error(err))
		}
	}
	return res, nil
}

// load reads and validates the three sources. Price problems are fatal;
// social and trend problems are returned as degraded stages.
func (p *Pipeline) load(ctx context.Context, ticker string) (models.PipelineInput, map[string]string, error) {
	var in models.PipelineInput
	degraded := make(map[string]string)

	start := time.Now()
	priceRecs, err := p.source.Prices(ctx, ticker)
	if err != nil {
		p.metrics.RecordError("source_prices")
		return in, nil, fmt.Errorf("load prices: %w", err)
	}
	if in.Prices, err = ingest.ParsePrices(ctx, priceRecs); err != nil {
		p.metrics.RecordError("ingest_prices")
		return in, nil, fmt.Errorf("ingest prices: %w", err)
	}

	if recs, err := p.source.SocialPosts(ctx, ticker); err != nil {
		degraded[StageSentiment] = fmt.Sprintf("load social posts: %v", err)
	} else if in.Posts, err = ingest.ParseSocialPosts(ctx, recs); err != nil {
		degraded[StageSentiment] = fmt.Sprintf("ingest social posts: %v", err)
	}

	if recs, err := p.source.Trends(ctx, ticker); err != nil {
		degraded[StageTrend] = fmt.Sprintf("load trends: %v", err)
	} else if in.Trends, err = ingest.ParseTrends(ctx, recs); err != nil {
		degraded[StageTrend] = fmt.Sprintf("ingest trends: %v", err)
	}

	// a cancelled context can look like a degraded optional source
	if err := ctx.Err(); err != nil {
		return in, nil, fmt.Errorf("load sources: %w", err)
	}
	for stage, msg := range degraded {
		p.log.Warn("optional source degraded",
			applogger.String("ticker", ticker),
			applogger.String("stage", stage),
			applogger.String("reason", msg),
		)
	}
	p.metrics.RecordLatency("load_sources", time.Since(start).Seconds())
	return in, degraded, nil
}

func (p *Pipeline) cachedResult(ctx context.Context, key string) (*models.PipelineResult, bool) {
	cached, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.metrics.RecordError("cache_get")
		p.log.Warn("result cache get failed", applogger.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	cached.Cached = true
	return cached, true
}

// deliver writes the tables to the sink and publishes them. Delivery errors
// fail the run so a request worker can retry it.
func (p *Pipeline) deliver(ctx context.Context, res *models.PipelineResult) error {
	if p.sink != nil {
		start := time.Now()
		if err := p.sink.WriteFeatures(ctx, res.RunID, res.Ticker, res.Features); err != nil {
			p.metrics.RecordError("sink_features")
			return fmt.Errorf("sink features: %w", err)
		}
		if err := p.sink.WriteLabels(ctx, res.RunID, res.Ticker, res.Labels); err != nil {
			p.metrics.RecordError("sink_labels")
			return fmt.Errorf("sink labels: %w", err)
		}
		p.metrics.RecordLatency("sink_write", time.Since(start).Seconds())
	}
	if p.pub != nil {
		start := time.Now()
		if err := p.pub.PublishResult(ctx, res); err != nil {
			p.metrics.RecordError("publish")
			return fmt.Errorf("publish result: %w", err)
		}
		p.metrics.RecordLatency("publish", time.Since(start).Seconds())
	}
	return nil
}

func (p *Pipeline) recordRows(res *models.PipelineResult) {
	p.metrics.RecordRows(StageMerge, len(res.Features.Rows))
	p.metrics.RecordRows(StageLabels, len(res.Labels.Rows))
	p.metrics.RecordRows(StageLabeled, len(res.Labeled))
}

func validateParams(params models.PipelineParams) error {
	if params.Ticker == "" {
		return fmt.Errorf("%w: ticker is required", ErrInvalidParams)
	}
	if params.HighVolatilityThreshold < 0 {
		return fmt.Errorf("%w: high volatility threshold must be >= 0", ErrInvalidParams)
	}
	if err := labelOptions(params).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return nil
}

func labelOptions(params models.PipelineParams) labels.Options {
	return labels.Options{
		Lookahead:           params.Lookahead,
		VolatilityThreshold: params.VolatilityThreshold,
		Basis:               labels.Basis(params.VolatilityBasis),
	}
}

type noopMetrics struct{}

func (noopMetrics) RecordRun(string, string) {}

func (noopMetrics) RecordRows(string, int) {}

func (noopMetrics) RecordDegraded(string) {}

func (noopMetrics) RecordError(string) {}

func (noopMetrics) RecordLatency(string, float64) {}
