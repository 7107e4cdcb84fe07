package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
	drepo "github.com/rakeshcr92/InsiderNet/internal/domain/repository"
	"github.com/rakeshcr92/InsiderNet/internal/ingest"
	"github.com/rakeshcr92/InsiderNet/internal/services/labels"
	pkgkafka "github.com/rakeshcr92/InsiderNet/pkg/kafka"
	applogger "github.com/rakeshcr92/InsiderNet/pkg/logger"
)

// Runner runs one pipeline for the given parameters.
type Runner interface {
	Run(ctx context.Context, params models.PipelineParams) (*models.PipelineResult, error)
}

// PipelineRequestHandler consumes pipeline requests from Kafka. Zero request
// fields fall back to the configured defaults.
type PipelineRequestHandler struct {
	topic    string
	runner   Runner
	defaults models.PipelineParams
	metrics  drepo.Metrics
	log      *applogger.Logger
}

var _ pkgkafka.MessageHandler = (*PipelineRequestHandler)(nil)

func NewPipelineRequestHandler(topic string, runner Runner, defaults models.PipelineParams, metrics drepo.Metrics, log *applogger.Logger) *PipelineRequestHandler {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = applogger.Nop()
	}
	return &PipelineRequestHandler{topic: topic, runner: runner, defaults: defaults, metrics: metrics, log: log}
}

func (h *PipelineRequestHandler) Topic() string { return h.topic }

// Handle decodes and validates a request and runs it. Malformed requests and
// bad input data are non-retryable; everything else may succeed on retry.
func (h *PipelineRequestHandler) Handle(ctx context.Context, b []byte) error {
	var req models.PipelineRequest
	if err := json.Unmarshal(b, &req); err != nil {
		h.metrics.RecordError("request_unmarshal")
		return pkgkafka.NonRetryable(err)
	}
	if err := ingest.Struct(ctx, "pipeline_request", 0, &req); err != nil {
		h.metrics.RecordError("request_invalid")
		return pkgkafka.NonRetryable(err)
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = pkgkafka.RequestIDFromContext(ctx)
	}
	params := h.Params(req)

	res, err := h.runner.Run(ctx, params)
	if err != nil {
		if permanent(err) {
			return pkgkafka.NonRetryable(err)
		}
		return err
	}

	h.log.Info("pipeline request handled",
		applogger.String("request_id", requestID),
		applogger.String("ticker", res.Ticker),
		applogger.String("run_id", res.RunID),
		applogger.Bool("cached", res.Cached),
	)
	return nil
}

// Params merges a request over the handler defaults.
func (h *PipelineRequestHandler) Params(req models.PipelineRequest) models.PipelineParams {
	params := h.defaults
	params.Ticker = req.Ticker
	if req.Lookahead > 0 {
		params.Lookahead = req.Lookahead
	}
	if req.VolatilityThreshold != nil {
		params.VolatilityThreshold = *req.VolatilityThreshold
	}
	if req.TrendQuery != "" {
		params.TrendQuery = req.TrendQuery
	}
	return params
}

func permanent(err error) bool {
	return errors.Is(err, ErrInvalidParams) ||
		errors.Is(err, labels.ErrInvalidParameter) ||
		errors.Is(err, ingest.ErrMissingColumn) ||
		errors.Is(err, ingest.ErrInvalidValue) ||
		errors.Is(err, ingest.ErrDuplicateDate) ||
		errors.Is(err, fs.ErrNotExist)
}
