package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-risk/internal/domain/model"
	pkgkafka "github.com/bibbank/credit-risk/pkg/kafka"
	"github.com/bibbank/credit-risk/pkg/money"
	pkgpostgres "github.com/bibbank/credit-risk/pkg/postgres"
	"github.com/bibbank/credit-risk/pkg/tlsutil"
)

type LogConfig struct {
	Level  string
	Format string
}

type KafkaConfig struct {
	// RequestTopic, when set, enables consuming assessment requests.
	RequestTopic  string
	EventsTopic   string
	ConsumerGroup string
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
	Brokers       []string
	TLS           bool
	SASLEnabled   bool
}

// Client returns the connection settings for pkg/kafka.
func (k KafkaConfig) Client() pkgkafka.Config {
	return pkgkafka.Config{
		Brokers:       k.Brokers,
		ConsumerGroup: k.ConsumerGroup,
		TLS:           k.TLS,
		SASLEnabled:   k.SASLEnabled,
		SASLMechanism: k.SASLMechanism,
		SASLUsername:  k.SASLUsername,
		SASLPassword:  k.SASLPassword,
	}
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type AuthConfig struct {
	Secret        string
	PublicKeyFile string
	Issuer        string
	Audience      string
}

type TracingConfig struct {
	Endpoint    string
	SampleRatio float64
	Insecure    bool
}

// RiskConfig holds the terms applied when a request names neither a rate
// nor a product.
type RiskConfig struct {
	DefaultAnnualRatePercent decimal.Decimal
	DefaultCurrency          string
	CatalogFile              string
}

type Config struct {
	ServiceName    string
	Environment    string
	Log            LogConfig
	DB             pkgpostgres.Config
	Kafka          KafkaConfig
	Redis          RedisConfig
	Auth           AuthConfig
	TLS            tlsutil.ServerConfig
	Tracing        TracingConfig
	Risk           RiskConfig
	GRPCPort       int
	HTTPPort       int
	RateLimitRPS   int
	GRPCReflection bool
}

// Load reads configuration from environment variables with defaults suited
// to local development.
func Load() Config {
	return Config{
		ServiceName: getEnv("SERVICE_NAME", "credit-risk"),
		Environment: getEnv("ENVIRONMENT", "development"),
		GRPCPort:    getEnvInt("GRPC_PORT", 9091),
		HTTPPort:    getEnvInt("HTTP_PORT", 8091),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		DB: pkgpostgres.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "bib"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "bib_risk"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 2)),
		},
		Kafka: KafkaConfig{
			Brokers:       pkgkafka.ParseBrokers(getEnv("KAFKA_BROKERS", "localhost:9092")),
			EventsTopic:   getEnv("KAFKA_EVENTS_TOPIC", "risk-events"),
			RequestTopic:  getEnv("KAFKA_REQUEST_TOPIC", ""),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "credit-risk"),
			TLS:           getEnvBool("KAFKA_TLS", false),
			SASLEnabled:   getEnvBool("KAFKA_SASL_ENABLED", false),
			SASLMechanism: getEnv("KAFKA_SASL_MECHANISM", "PLAIN"),
			SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("PRODUCT_CACHE_TTL", 5*time.Minute),
		},
		Auth: AuthConfig{
			Secret:        getEnv("JWT_SECRET", ""),
			PublicKeyFile: getEnv("JWT_PUBLIC_KEY_FILE", ""),
			Issuer:        getEnv("JWT_ISSUER", "bib-gateway"),
			Audience:      getEnv("JWT_AUDIENCE", ""),
		},
		TLS: tlsutil.ServerConfig{
			CertFile:     getEnv("TLS_CERT_FILE", ""),
			KeyFile:      getEnv("TLS_KEY_FILE", ""),
			ClientCAFile: getEnv("TLS_CLIENT_CA_FILE", ""),
		},
		Tracing: TracingConfig{
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			SampleRatio: getEnvFloat("OTEL_TRACES_SAMPLE_RATIO", 1.0),
			Insecure:    getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		},
		Risk: RiskConfig{
			DefaultAnnualRatePercent: decimal.NewFromFloat(getEnvFloat("DEFAULT_ANNUAL_RATE_PERCENT", 12.0)),
			DefaultCurrency:          strings.ToUpper(getEnv("DEFAULT_CURRENCY", "INR")),
			CatalogFile:              getEnv("CATALOG_FILE", ""),
		},
		RateLimitRPS:   getEnvInt("GRPC_RATE_LIMIT_RPS", 0),
		GRPCReflection: getEnvBool("GRPC_REFLECTION", false),
	}
}

// Validate reports every setting the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD is required"))
	}
	if c.Auth.Secret == "" && c.Auth.PublicKeyFile == "" {
		errs = append(errs, errors.New("one of JWT_SECRET or JWT_PUBLIC_KEY_FILE is required"))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required"))
	}
	rate := c.Risk.DefaultAnnualRatePercent
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(model.MaxAnnualRatePercent)) {
		errs = append(errs, fmt.Errorf("DEFAULT_ANNUAL_RATE_PERCENT out of range: %s", rate))
	}
	if _, err := money.NewCurrency(c.Risk.DefaultCurrency); err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_CURRENCY: %w", err))
	}
	if c.RateLimitRPS < 0 {
		errs = append(errs, errors.New("GRPC_RATE_LIMIT_RPS cannot be negative"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	return errors.Join(errs...)
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
