package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	defaultEnv               = "development"
	defaultLogLevel          = "info"
	defaultHTTPHost          = "0.0.0.0"
	defaultHTTPPort          = 8080
	defaultStoreDriver       = DriverMongo
	defaultDBHost            = "localhost"
	defaultDBPort            = 27017
	defaultDBName            = "invest"
	defaultRedisDB           = 0
	defaultCacheTTLSeconds   = 30
	defaultIngestExchange    = "history.ingest"
	defaultInvestEndpoint    = "https://invest-public-api.tinkoff.ru:443"
	defaultInvestAppName     = "invest-history-ingest"
	defaultStartYear         = 2012
	defaultRequestsPerSecond = 1.0
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Config keeps the runtime configuration shared by the server and the importer.
type Config struct {
	Env      string
	LogLevel logrus.Level
	HTTP     HTTPConfig
	Store    StoreConfig
	Redis    RedisConfig
	Cache    CacheConfig
	RabbitMQ RabbitMQConfig
	Invest   InvestConfig
	Ingest   IngestConfig
}

// HTTPConfig holds HTTP server related settings.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr renders the listen address in host:port form.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// StoreConfig selects the history store backend.
type StoreConfig struct {
	Driver   string
	MongoURI string
	Database string
	DSN      string
}

// RedisConfig stores Redis connection parameters.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig stores cache behavior.
type CacheConfig struct {
	TTLSeconds int
}

type RabbitMQConfig struct {
	URL            string
	IngestExchange string
}

// InvestConfig holds the market data provider credentials.
type InvestConfig struct {
	Token              string
	Endpoint           string
	AppName            string
	AccountID          string
	InsecureSkipVerify bool
}

type IngestConfig struct {
	StartYear         int
	RequestsPerSecond float64
}

// Load builds Config from environment variables. A .env file in the working
// directory is read first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	level, err := logrus.ParseLevel(getString("LOG_LEVEL", defaultLogLevel))
	if err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}

	host := getString("HTTP_HOST", defaultHTTPHost)
	port, err := getInt("HTTP_PORT", defaultHTTPPort)
	if err != nil {
		return nil, fmt.Errorf("parse HTTP_PORT: %w", err)
	}

	store, err := loadStore()
	if err != nil {
		return nil, err
	}

	redisDB, err := getInt("REDIS_DB", defaultRedisDB)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_DB: %w", err)
	}

	cacheTTL, err := getInt("CACHE_TTL_SECONDS", defaultCacheTTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("parse CACHE_TTL_SECONDS: %w", err)
	}

	skipVerify, err := getBool("INVEST_INSECURE_SKIP_VERIFY", false)
	if err != nil {
		return nil, fmt.Errorf("parse INVEST_INSECURE_SKIP_VERIFY: %w", err)
	}

	startYear, err := getInt("INGEST_START_YEAR", defaultStartYear)
	if err != nil {
		return nil, fmt.Errorf("parse INGEST_START_YEAR: %w", err)
	}

	rps, err := getFloat("INGEST_REQUESTS_PER_SECOND", defaultRequestsPerSecond)
	if err != nil {
		return nil, fmt.Errorf("parse INGEST_REQUESTS_PER_SECOND: %w", err)
	}

	return &Config{
		Env:      getString("APP_ENV", defaultEnv),
		LogLevel: level,
		HTTP:     HTTPConfig{Host: host, Port: port},
		Store:    store,
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Cache: CacheConfig{
			TTLSeconds: cacheTTL,
		},
		RabbitMQ: RabbitMQConfig{
			URL:            os.Getenv("RABBITMQ_URL"),
			IngestExchange: getString("RABBITMQ_INGEST_EXCHANGE", defaultIngestExchange),
		},
		Invest: InvestConfig{
			Token:              strings.TrimSpace(os.Getenv("INVEST_TOKEN")),
			Endpoint:           getString("INVEST_ENDPOINT", defaultInvestEndpoint),
			AppName:            getString("INVEST_APP_NAME", defaultInvestAppName),
			AccountID:          strings.TrimSpace(os.Getenv("INVEST_ACCOUNT_ID")),
			InsecureSkipVerify: skipVerify,
		},
		Ingest: IngestConfig{
			StartYear:         startYear,
			RequestsPerSecond: rps,
		},
	}, nil
}

// LoadIngest is Load plus the provider settings the importer cannot run without.
func LoadIngest() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if cfg.Invest.Token == "" {
		return nil, errors.New("INVEST_TOKEN is required")
	}
	if cfg.Invest.AccountID == "" {
		return nil, errors.New("INVEST_ACCOUNT_ID is required")
	}
	return cfg, nil
}

func loadStore() (StoreConfig, error) {
	driver := strings.ToLower(getString("STORE_DRIVER", defaultStoreDriver))
	switch driver {
	case DriverMongo:
		dbPort, err := getInt("DB_PORT", defaultDBPort)
		if err != nil {
			return StoreConfig{}, fmt.Errorf("parse DB_PORT: %w", err)
		}
		uri := getString("MONGO_URI", fmt.Sprintf("mongodb://%s:%d", getString("DB_HOST", defaultDBHost), dbPort))
		return StoreConfig{
			Driver:   driver,
			MongoURI: uri,
			Database: getString("DB_NAME", defaultDBName),
		}, nil
	case DriverPostgres:
		dsn := os.Getenv("DATABASE_DSN")
		if dsn == "" {
			return StoreConfig{}, errors.New("DATABASE_DSN is required")
		}
		return StoreConfig{Driver: driver, DSN: dsn}, nil
	default:
		return StoreConfig{}, fmt.Errorf("unsupported STORE_DRIVER %q", driver)
	}
}

func getString(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to int: %w", key, value, err)
	}
	return parsed, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to float: %w", key, value, err)
	}
	return parsed, nil
}

func getBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("convert %s value %q to bool: %w", key, value, err)
	}
	return parsed, nil
}
