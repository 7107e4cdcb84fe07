package di

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
	"github.com/rakeshcr92/InsiderNet/internal/domain/repository"
	internalrepo "github.com/rakeshcr92/InsiderNet/internal/repository"
	icache "github.com/rakeshcr92/InsiderNet/internal/service/cache"
	"github.com/rakeshcr92/InsiderNet/internal/usecase"
	pkgcache "github.com/rakeshcr92/InsiderNet/pkg/cache"
	pkgch "github.com/rakeshcr92/InsiderNet/pkg/clickhouse"
	"github.com/rakeshcr92/InsiderNet/pkg/config"
	xhttp "github.com/rakeshcr92/InsiderNet/pkg/http"
	pkgkafka "github.com/rakeshcr92/InsiderNet/pkg/kafka"
	"github.com/rakeshcr92/InsiderNet/pkg/logger"
	"github.com/rakeshcr92/InsiderNet/pkg/metrics"
	"github.com/rakeshcr92/InsiderNet/pkg/server"
)

// ProvideLogger creates the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(logger.String("env", cfg.Environment)), nil
}

// ProvideRegistry returns the registry every collector registers on.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideClickHouseClient connects to ClickHouse when the source or the sink
// uses it and returns nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	if cfg.Source.Type != "clickhouse" && cfg.Sink.Type != "clickhouse" {
		return nil, func() {}, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithAddr(cfg.ClickHouse.Host, cfg.ClickHouse.Port, cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithPool(10, 5, 0),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
		pkgch.WithInsertChunk(cfg.Sink.BatchSize),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideKafkaProducer creates a producer when the sink is kafka.
func ProvideKafkaProducer(cfg *config.Config, reg *prometheus.Registry) (*pkgkafka.Producer, func(), error) {
	if cfg.Sink.Type != "kafka" {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithDelivery(cfg.Kafka.RequiredAcks, cfg.Kafka.Producer.MaxAttempts, cfg.Kafka.Compression),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithProducerRegisterer(reg),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

// ProvideSourceStore picks the raw record source.
func ProvideSourceStore(cfg *config.Config, ch *pkgch.Client, l *logger.Logger) repository.SourceStore {
	if cfg.Source.Type == "clickhouse" {
		s := internalrepo.NewCHSourceStore(ch, internalrepo.SourceTables{
			Prices: cfg.Source.PricesTable,
			Social: cfg.Source.SocialTable,
			Trends: cfg.Source.TrendsTable,
		})
		s.SetLogger(l)
		return s
	}
	return internalrepo.NewFileSourceStore(cfg.Source.Dir)
}

// ProvideTableSink creates the ClickHouse sink and its tables, or returns nil.
func ProvideTableSink(cfg *config.Config, ch *pkgch.Client, l *logger.Logger) (repository.TableSink, error) {
	if cfg.Sink.Type != "clickhouse" {
		return nil, nil
	}
	sink := internalrepo.NewCHTableSink(ch, cfg.Sink.FeaturesTable, cfg.Sink.LabelsTable)
	sink.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sink.Init(ctx); err != nil {
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return sink, nil
}

// ProvidePublisher wraps the producer, or returns nil when there is none.
func ProvidePublisher(cfg *config.Config, producer *pkgkafka.Producer) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.FeaturesTopic, cfg.Kafka.LabelsTopic)
}

// ProvideCacheService returns Redis fronted by a small memory layer when
// Redis is enabled, otherwise a memory cache.
func ProvideCacheService(cfg *config.Config) (pkgcache.Service, func(), error) {
	if !cfg.Redis.Enabled {
		mem := pkgcache.NewMemoryCache(pkgcache.WithMemoryMaxSize(256))
		return mem, func() { _ = mem.Close() }, nil
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisAddr(cfg.Redis.Host, cfg.Redis.Port),
		pkgcache.WithRedisAuth(cfg.Redis.Password, cfg.Redis.DB),
		pkgcache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	lc := pkgcache.NewLayeredCache(rc, 64, 5*time.Minute)
	return lc, func() { _ = lc.Close() }, nil
}

func ProvideResultCache(svc pkgcache.Service) repository.ResultCache {
	return icache.NewResultCache(svc)
}

// PipelineDefaults converts the pipeline section into run parameters.
func PipelineDefaults(cfg *config.Config) models.PipelineParams {
	params := models.PipelineParams{
		Ticker:                  cfg.Pipeline.Ticker,
		Lookahead:               cfg.Pipeline.Lookahead,
		VolatilityBasis:         cfg.Pipeline.VolatilityBasis,
		TrendQuery:              cfg.Pipeline.TrendQuery,
		HighVolatilityThreshold: cfg.Pipeline.HighVolatilityThreshold,
		SkipPartialTrends:       cfg.Pipeline.SkipPartialTrends,
	}
	if cfg.Pipeline.VolatilityThreshold != nil {
		params.VolatilityThreshold = *cfg.Pipeline.VolatilityThreshold
	}
	return params
}

// ProvidePipeline assembles the pipeline use case. Nil sink or publisher
// disables that delivery step.
func ProvidePipeline(
	cfg *config.Config,
	source repository.SourceStore,
	sink repository.TableSink,
	pub repository.Publisher,
	cache repository.ResultCache,
	m repository.Metrics,
	l *logger.Logger,
) *usecase.Pipeline {
	opts := []usecase.PipelineOption{
		usecase.WithMetrics(m),
		usecase.WithLogger(l),
		usecase.WithTimeout(cfg.Pipeline.Timeout),
		usecase.WithCache(cache, cfg.Pipeline.CacheTTL),
	}
	if sink != nil {
		opts = append(opts, usecase.WithSink(sink))
	}
	if pub != nil {
		opts = append(opts, usecase.WithPublisher(pub))
	}
	return usecase.NewPipeline(source, opts...)
}

// ProvideKafkaConsumer creates the request consumer.
func ProvideKafkaConsumer(cfg *config.Config, l *logger.Logger, reg *prometheus.Registry) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(l,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.RequestIDHook())
	return consumer, nil
}

// ProvideRequestHandler handles the pipeline request topic.
func ProvideRequestHandler(cfg *config.Config, p *usecase.Pipeline, m repository.Metrics, l *logger.Logger) *usecase.PipelineRequestHandler {
	return usecase.NewPipelineRequestHandler(cfg.Kafka.RequestTopic, p, PipelineDefaults(cfg), m, l)
}

// ProvideHTTPServer creates the operational server with readiness checks for
// the clients in use.
func ProvideHTTPServer(cfg *config.Config, l *logger.Logger, reg *prometheus.Registry, ch *pkgch.Client, cache pkgcache.Service) *xhttp.Server {
	checks := map[string]xhttp.Check{
		"cache": func(ctx context.Context) error {
			_, err := cache.Exists(ctx, "readyz")
			return err
		},
	}
	if ch != nil {
		checks["clickhouse"] = ch.Health
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(l, []xhttp.Handler{xhttp.NewHealthHandler(checks, 2*time.Second)},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(metricsPath, reg),
	)
}

// ProvideApp creates the worker application.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	consumer *pkgkafka.Consumer,
	handler *usecase.PipelineRequestHandler,
	httpServer *xhttp.Server,
) *server.App {
	return server.New(cfg, l, consumer, handler, httpServer)
}
