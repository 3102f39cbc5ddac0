package config

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"APP_ENV", "LOG_LEVEL", "HTTP_HOST", "HTTP_PORT", "STORE_DRIVER", "MONGO_URI",
	"DB_HOST", "DB_PORT", "DB_NAME", "DATABASE_DSN", "REDIS_ADDR", "REDIS_PASSWORD",
	"REDIS_DB", "CACHE_TTL_SECONDS", "RABBITMQ_URL", "RABBITMQ_INGEST_EXCHANGE",
	"INVEST_TOKEN", "INVEST_ENDPOINT", "INVEST_APP_NAME", "INVEST_ACCOUNT_ID",
	"INVEST_INSECURE_SKIP_VERIFY", "INGEST_START_YEAR", "INGEST_REQUESTS_PER_SECOND",
}

// clearEnv blanks every variable Load reads; empty values fall back to defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, key := range managedKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Store.MongoURI)
	assert.Equal(t, "invest", cfg.Store.Database)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 30, cfg.Cache.TTLSeconds)
	assert.Empty(t, cfg.RabbitMQ.URL)
	assert.Equal(t, "history.ingest", cfg.RabbitMQ.IngestExchange)
	assert.Equal(t, "https://invest-public-api.tinkoff.ru:443", cfg.Invest.Endpoint)
	assert.Equal(t, 2012, cfg.Ingest.StartYear)
	assert.Equal(t, 1.0, cfg.Ingest.RequestsPerSecond)
}

func TestLoadMongoFromHostTriple(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "mongo")
	t.Setenv("DB_PORT", "27018")
	t.Setenv("DB_NAME", "history")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://mongo:27018", cfg.Store.MongoURI)
	assert.Equal(t, "history", cfg.Store.Database)
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := Load()
	assert.EqualError(t, err, "DATABASE_DSN is required")

	t.Setenv("DATABASE_DSN", "postgres://localhost/history")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/history", cfg.Store.DSN)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"STORE_DRIVER":                "sqlite",
		"LOG_LEVEL":                   "loud",
		"HTTP_PORT":                   "http",
		"INGEST_REQUESTS_PER_SECOND":  "fast",
		"INVEST_INSECURE_SKIP_VERIFY": "maybe",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadIngestRequiresProviderSettings(t *testing.T) {
	clearEnv(t)

	_, err := LoadIngest()
	assert.EqualError(t, err, "INVEST_TOKEN is required")

	t.Setenv("INVEST_TOKEN", "t.secret")
	_, err = LoadIngest()
	assert.EqualError(t, err, "INVEST_ACCOUNT_ID is required")

	t.Setenv("INVEST_ACCOUNT_ID", "2000000000")
	t.Setenv("INGEST_START_YEAR", "2020")
	t.Setenv("INGEST_REQUESTS_PER_SECOND", "2.5")
	cfg, err := LoadIngest()
	require.NoError(t, err)
	assert.Equal(t, "t.secret", cfg.Invest.Token)
	assert.Equal(t, 2020, cfg.Ingest.StartYear)
	assert.Equal(t, 2.5, cfg.Ingest.RequestsPerSecond)
}
