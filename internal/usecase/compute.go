package usecase

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
	"github.com/rakeshcr92/InsiderNet/internal/services/features"
	"github.com/rakeshcr92/InsiderNet/internal/services/labels"
)

type stageResult struct {
	stage string
	table any
	err   error
}

// Compute runs the engines over already-validated input. It touches no I/O.
// The four feature engines and the label generator run concurrently; the
// merger waits for the feature engines only.
func Compute(params models.PipelineParams, in models.PipelineInput, sentiment *features.SentimentEngine) (*models.PipelineResult, error) {
	if sentiment == nil {
		sentiment = features.NewSentimentEngine(nil)
	}

	dates := make([]string, len(in.Prices))
	for i, b := range in.Prices {
		dates[i] = b.Day()
	}

	stages := map[string]func() (any, error){
		StagePrice: func() (any, error) {
			return features.ComputePriceFeatures(in.Prices, features.PriceOptions{
				HighVolatilityThreshold: params.HighVolatilityThreshold,
			})
		},
		StageSentiment: func() (any, error) {
			return sentiment.Aggregate(in.Posts), nil
		},
		StageTrend: func() (any, error) {
			return features.ComputeTrendFeatures(in.Trends, features.TrendOptions{
				Query:       params.TrendQuery,
				SkipPartial: params.SkipPartialTrends,
			})
		},
		StageCalendar: func() (any, error) {
			return features.ComputeCalendarFeatures(dates)
		},
	}

	labelsCh := make(chan stageResult, 1)
	go func() {
		t, err := safeStage(StageLabels, func() (any, error) {
			return labels.Generate(in.Prices, labelOptions(params))
		})
		labelsCh <- stageResult{stage: StageLabels, table: t, err: err}
	}()

	results := make(chan stageResult, len(stages))
	var wg sync.WaitGroup
	for name, fn := range stages {
		wg.Add(1)
		go func(name string, fn func() (any, error)) {
			defer wg.Done()
			t, err := safeStage(name, fn)
			results <- stageResult{stage: name, table: t, err: err}
		}(name, fn)
	}
	wg.Wait()
	close(results)

	res := &models.PipelineResult{
		Ticker: params.Ticker,
		Errors: make(map[string]string),
	}

	var (
		price    models.PriceTable
		sent     models.SentimentTable
		calendar models.CalendarTable
		fatal    error
	)
	trend := models.TrendTable{DateOnly: true}
	for r := range results {
		if r.err != nil {
			switch r.stage {
			case StageSentiment, StageTrend:
				res.Errors[r.stage] = r.err.Error()
			default:
				fatal = r.err
			}
			continue
		}
		switch t := r.table.(type) {
		case models.PriceTable:
			price = t
		case models.SentimentTable:
			sent = t
		case models.TrendTable:
			trend = t
		case models.CalendarTable:
			calendar = t
		}
	}

	lr := <-labelsCh
	if fatal != nil {
		return nil, fmt.Errorf("compute features: %w", fatal)
	}
	if lr.err != nil {
		return nil, fmt.Errorf("compute labels: %w", lr.err)
	}

	merged, err := features.Merge(price, sent, trend, calendar)
	if err != nil {
		return nil, fmt.Errorf("merge features: %w", err)
	}

	res.Features = merged
	res.Labels = lr.table.(models.LabelTable)
	res.Labeled = models.JoinLabels(res.Features, res.Labels)
	return res, nil
}

// safeStage turns a panicking engine into a stage error.
func safeStage(name string, fn func() (any, error)) (t any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s stage panic: %v\n%s", name, r, debug.Stack())
		}
	}()
	return fn()
}
