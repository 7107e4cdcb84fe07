package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
	pkgkafka "github.com/rakeshcr92/InsiderNet/pkg/kafka"
)

type fakeProducer struct {
	sent map[string][]pkgkafka.Message
	err  error
}

func (f *fakeProducer) PublishBatch(_ context.Context, topic string, msgs []pkgkafka.Message) error {
	if f.err != nil {
		return f.err
	}
	if f.sent == nil {
		f.sent = map[string][]pkgkafka.Message{}
	}
	f.sent[topic] = append(f.sent[topic], msgs...)
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func TestKafkaPublisher_PublishResult(t *testing.T) {
	p := &fakeProducer{}
	pub := NewKafkaPublisher(p, "features", "labels")
	res := &models.PipelineResult{
		RunID:    "run-1",
		Ticker:   "AAPL",
		Features: models.FeatureTable{Rows: []models.FeatureRow{{Date: "2024-03-01"}, {Date: "2024-03-04"}}},
		Labels:   models.LabelTable{Rows: []models.LabelRow{{Date: "2024-03-01"}}},
	}
	require.NoError(t, pub.PublishResult(context.Background(), res))

	require.Len(t, p.sent["features"], 2)
	require.Len(t, p.sent["labels"], 1)
	m := p.sent["features"][1]
	assert.Equal(t, []byte("AAPL"), m.Key)
	assert.Equal(t, "run-1", m.Headers[HeaderRunID])
	assert.Equal(t, "2024-03-04", m.Value.(map[string]any)["date"])
}

func TestKafkaPublisher_Error(t *testing.T) {
	p := &fakeProducer{err: errors.New("broker down")}
	pub := NewKafkaPublisher(p, "features", "labels")
	res := &models.PipelineResult{Features: models.FeatureTable{Rows: []models.FeatureRow{{Date: "2024-03-01"}}}}
	assert.ErrorContains(t, pub.PublishResult(context.Background(), res), "publish features")
	assert.NoError(t, pub.PublishResult(context.Background(), nil))
}
