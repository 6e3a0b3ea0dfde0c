package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(viper.New(), false)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "json", cfg.App.DefaultFormat)
	assert.Equal(t, int64(1024*1024), cfg.App.MaxFileSize)
	assert.Equal(t, 4, cfg.Scoring.BatchWorkers)
	assert.Equal(t, "general", cfg.Scoring.DefaultJobType)
	assert.Equal(t, 500*time.Millisecond, cfg.Scoring.ReloadDebounce)
	assert.Equal(t, "disabled", cfg.Server.TLS.Mode)
	assert.Equal(t, "prepscore", cfg.Observability.ServiceName)
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("PREPSCORE_SCORING_BATCHWORKERS", "8")
	t.Setenv("PREPSCORE_SERVER_APIKEYS", "alpha, beta")
	t.Setenv("PREPSCORE_APP_DEFAULTFORMAT", "markdown")

	cfg, err := loadConfig(viper.New(), false)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Scoring.BatchWorkers)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Server.APIKeys)
	assert.Equal(t, "markdown", cfg.App.DefaultFormat)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Setenv("PREPSCORE_SCORING_BATCHWORKERS", "0")

	_, err := loadConfig(viper.New(), false)
	assert.ErrorContains(t, err, "batchWorkers must be at least 1")
}

func validConfig() Config {
	return Config{
		App:     AppConfig{DefaultFormat: "json", MaxFileSize: 1024},
		Scoring: ScoringConfig{BatchWorkers: 2, DefaultJobType: "general"},
		Server: ServerConfig{
			TLS:       TLSConfig{Mode: "disabled"},
			RateLimit: RateLimitConfig{Enabled: true, RequestsPerMin: 60, BurstCapacity: 5},
		},
		Observability: ObservabilityConfig{SampleRate: 1},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"format", func(c *Config) { c.App.DefaultFormat = "xml" }, "invalid default format"},
		{"file size", func(c *Config) { c.App.MaxFileSize = 0 }, "maxFileSize must be positive"},
		{"workers", func(c *Config) { c.Scoring.BatchWorkers = 0 }, "batchWorkers"},
		{"watch without file", func(c *Config) { c.Scoring.WatchLexicon = true }, "watchLexicon requires lexiconFile"},
		{"job type", func(c *Config) { c.Scoring.DefaultJobType = "astronaut" }, "invalid defaultJobType"},
		{"rate", func(c *Config) { c.Server.RateLimit.RequestsPerMin = 0 }, "requestsPerMin"},
		{"burst", func(c *Config) { c.Server.RateLimit.BurstCapacity = 0 }, "burstCapacity"},
		{"rate disabled", func(c *Config) {
			c.Server.RateLimit = RateLimitConfig{Enabled: false}
		}, ""},
		{"sample rate", func(c *Config) { c.Observability.SampleRate = 1.5 }, "sampleRate"},
		{"tls", func(c *Config) { c.Server.TLS.Mode = "server" }, "TLS certificate and key are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.errorMsg)
			}
		})
	}
}

func TestSplitKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitKeys(" a ,, b "))
	assert.Nil(t, splitKeys(" , "))
}
