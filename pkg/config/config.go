package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. INSIDERNET_KAFKA_BROKERS.
const EnvPrefix = "INSIDERNET"

type Config struct {
	Environment string           `yaml:"environment" default:"development" validate:"required"`
	Log         LogConfig        `yaml:"log"`
	Server      ServerConfig     `yaml:"server"`
	Metrics     MetricsConfig    `yaml:"metrics"`
	Pipeline    PipelineConfig   `yaml:"pipeline"`
	Source      SourceConfig     `yaml:"source"`
	Sink        SinkConfig       `yaml:"sink"`
	Kafka       KafkaConfig      `yaml:"kafka"`
	ClickHouse  ClickHouseConfig `yaml:"clickhouse"`
	Redis       RedisConfig      `yaml:"redis"`
}

type LogConfig struct {
	Level      string `yaml:"level" default:"info" validate:"oneof=debug info warn error fatal panic"`
	Format     string `yaml:"format" default:"json" validate:"oneof=json console"`
	Output     string `yaml:"output" default:"stdout"`
	TimeFormat string `yaml:"time_format"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

// PipelineConfig carries the run parameters. Lookahead and VolatilityThreshold
// have no defaults and must be set explicitly.
type PipelineConfig struct {
	Ticker                  string        `yaml:"ticker"`
	Lookahead               int           `yaml:"lookahead" validate:"required,gte=1"`
	VolatilityThreshold     *float64      `yaml:"volatility_threshold" validate:"required,gte=0"`
	VolatilityBasis         string        `yaml:"volatility_basis" default:"absolute" validate:"oneof=absolute relative"`
	TrendQuery              string        `yaml:"trend_query"`
	HighVolatilityThreshold float64       `yaml:"high_volatility_threshold" validate:"gte=0"`
	SkipPartialTrends       bool          `yaml:"skip_partial_trends"`
	Timeout                 time.Duration `yaml:"timeout" default:"60s"`
	CacheTTL                time.Duration `yaml:"cache_ttl" default:"1h"`
}

type SourceConfig struct {
	Type        string `yaml:"type" default:"file" validate:"oneof=file clickhouse"`
	Dir         string `yaml:"dir" default:"data"`
	PricesTable string `yaml:"prices_table" default:"prices"`
	SocialTable string `yaml:"social_table" default:"reddit_posts"`
	TrendsTable string `yaml:"trends_table" default:"trends"`
}

type SinkConfig struct {
	Type          string `yaml:"type" default:"none" validate:"oneof=none clickhouse kafka"`
	FeaturesTable string `yaml:"features_table" default:"features"`
	LabelsTable   string `yaml:"labels_table" default:"labels"`
	BatchSize     int    `yaml:"batch_size" default:"2000" validate:"gte=1"`
}

type KafkaConfig struct {
	Brokers       []string `yaml:"brokers"`
	RequestTopic  string   `yaml:"request_topic" default:"insidernet.pipeline.requests"`
	FeaturesTopic string   `yaml:"features_topic" default:"insidernet.features"`
	LabelsTopic   string   `yaml:"labels_topic" default:"insidernet.labels"`
	RequiredAcks  int      `yaml:"required_acks" default:"-1"`
	Compression   string   `yaml:"compression" default:"snappy" validate:"oneof=none gzip snappy lz4 zstd"`
	Producer      struct {
		MaxAttempts  int           `yaml:"max_attempts" default:"10"`
		Linger       time.Duration `yaml:"linger" default:"10ms"`
		BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
		BatchSize    int           `yaml:"batch_size" default:"500"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		Async        bool          `yaml:"async"`
	} `yaml:"producer"`
	Consumer struct {
		GroupID    string        `yaml:"group_id" default:"insidernet-pipeline"`
		Workers    int           `yaml:"workers" default:"4" validate:"gte=1"`
		BufferSize int           `yaml:"buffer_size" default:"64"`
		RetryMax   int           `yaml:"retry_max" default:"3"`
		BackoffMin time.Duration `yaml:"backoff_min" default:"200ms"`
		BackoffMax time.Duration `yaml:"backoff_max" default:"5s"`
		DLQTopic   string        `yaml:"dlq_topic"`
		MinBytes   int           `yaml:"min_bytes" default:"1"`
		MaxBytes   int           `yaml:"max_bytes" default:"10485760"`
	} `yaml:"consumer"`
}

type ClickHouseConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port" default:"9000"`
	Database         string        `yaml:"database" default:"insidernet"`
	User             string        `yaml:"user" default:"default"`
	Password         string        `yaml:"password"`
	UseHTTP          bool          `yaml:"use_http"`
	AsyncInsert      bool          `yaml:"async_insert"`
	WaitForAsync     bool          `yaml:"wait_for_async_insert"`
	DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
	MaxExecutionTime time.Duration `yaml:"max_execution_time"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host" default:"localhost"`
	Port     int    `yaml:"port" default:"6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix" default:"insidernet"`
}

// envOverrides lists the settings that may come from the environment.
type envOverrides struct {
	Environment        string   `envconfig:"ENVIRONMENT"`
	LogLevel           string   `envconfig:"LOG_LEVEL"`
	Ticker             string   `envconfig:"TICKER"`
	SourceType         string   `envconfig:"SOURCE_TYPE"`
	SourceDir          string   `envconfig:"SOURCE_DIR"`
	SinkType           string   `envconfig:"SINK_TYPE"`
	KafkaBrokers       []string `envconfig:"KAFKA_BROKERS"`
	ClickHouseHost     string   `envconfig:"CLICKHOUSE_HOST"`
	ClickHousePassword string   `envconfig:"CLICKHOUSE_PASSWORD"`
	RedisHost          string   `envconfig:"REDIS_HOST"`
	RedisPassword      string   `envconfig:"REDIS_PASSWORD"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c, err := Parse(b)
	if err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Parse decodes YAML on top of the default values without validating.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML, then applies .env and INSIDERNET_* overrides.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Read is LoadWithEnv without validation, for callers that still apply
// their own overrides (command-line flags).
func Read(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c, err := Parse(b)
	if err != nil {
		return nil, err
	}

	// A missing .env is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyEnv overrides fields from INSIDERNET_* environment variables.
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := envconfig.Process(EnvPrefix, &o); err != nil {
		return fmt.Errorf("env overrides: %w", err)
	}

	if o.Environment != "" {
		c.Environment = o.Environment
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.Ticker != "" {
		c.Pipeline.Ticker = o.Ticker
	}
	if o.SourceType != "" {
		c.Source.Type = o.SourceType
	}
	if o.SourceDir != "" {
		c.Source.Dir = o.SourceDir
	}
	if o.SinkType != "" {
		c.Sink.Type = o.SinkType
	}
	if len(o.KafkaBrokers) > 0 {
		c.Kafka.Brokers = o.KafkaBrokers
	}
	if o.ClickHouseHost != "" {
		c.ClickHouse.Host = o.ClickHouseHost
	}
	if o.ClickHousePassword != "" {
		c.ClickHouse.Password = o.ClickHousePassword
	}
	if o.RedisHost != "" {
		c.Redis.Host = o.RedisHost
	}
	if o.RedisPassword != "" {
		c.Redis.Password = o.RedisPassword
	}
	return nil
}

var validate = validator.New()

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Source.Type == "clickhouse" || c.Sink.Type == "clickhouse" {
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required when source or sink uses clickhouse")
		}
	}
	if c.Sink.Type == "kafka" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when sink.type is kafka")
	}
	return nil
}

// RequireKafka is checked by the worker command, which always consumes requests.
func (c *Config) RequireKafka() error {
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty")
	}
	if c.Kafka.RequestTopic == "" {
		return fmt.Errorf("kafka.request_topic is required")
	}
	return nil
}
