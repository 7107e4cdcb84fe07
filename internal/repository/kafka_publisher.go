package repository

import (
	"context"
	"fmt"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
	domrepo "github.com/rakeshcr92/InsiderNet/internal/domain/repository"
	pkgkafka "github.com/rakeshcr92/InsiderNet/pkg/kafka"
)

// BatchProducer is the subset of pkg/kafka.Producer the publisher needs.
type BatchProducer interface {
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

const HeaderRunID = "run_id"

// KafkaPublisher emits one message per feature and label row, keyed by
// ticker so a ticker's rows stay ordered within a partition.
type KafkaPublisher struct {
	p             BatchProducer
	featuresTopic string
	labelsTopic   string
}

var _ domrepo.Publisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(p BatchProducer, featuresTopic, labelsTopic string) *KafkaPublisher {
	return &KafkaPublisher{p: p, featuresTopic: featuresTopic, labelsTopic: labelsTopic}
}

func (k *KafkaPublisher) PublishResult(ctx context.Context, res *models.PipelineResult) error {
	if res == nil {
		return nil
	}
	key := []byte(res.Ticker)
	headers := map[string]string{
		HeaderRunID: res.RunID,
		"ticker":    res.Ticker,
	}

	feats := make([]pkgkafka.Message, 0, len(res.Features.Rows))
	for _, r := range res.Features.Rows {
		feats = append(feats, pkgkafka.Message{Key: key, Value: r.Record(), Headers: headers})
	}
	if len(feats) > 0 {
		if err := k.p.PublishBatch(ctx, k.featuresTopic, feats); err != nil {
			return fmt.Errorf("publish features: %w", err)
		}
	}

	labels := make([]pkgkafka.Message, 0, len(res.Labels.Rows))
	for _, r := range res.Labels.Rows {
		labels = append(labels, pkgkafka.Message{Key: key, Value: r.Record(), Headers: headers})
	}
	if len(labels) > 0 {
		if err := k.p.PublishBatch(ctx, k.labelsTopic, labels); err != nil {
			return fmt.Errorf("publish labels: %w", err)
		}
	}
	return nil
}

func (k *KafkaPublisher) Close() error { return k.p.Close() }
