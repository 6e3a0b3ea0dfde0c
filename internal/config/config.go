package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"prepscore/internal/types"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (PREPSCORE_SERVER_APIKEYS, etc.)
// 4. Default values - Lowest priority
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Scoring       ScoringConfig       `mapstructure:"scoring"`
	Server        ServerConfig        `mapstructure:"server"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ScoringConfig holds scoring engine configuration
type ScoringConfig struct {
	LexiconFile    string        `mapstructure:"lexiconFile"`    // Empty uses the built-in lexicon
	WatchLexicon   bool          `mapstructure:"watchLexicon"`   // Reload lexiconFile when it changes
	ReloadDebounce time.Duration `mapstructure:"reloadDebounce"` // Debounce for lexicon file events
	BatchWorkers   int           `mapstructure:"batchWorkers"`   // Parallel answers in a session
	DefaultJobType string        `mapstructure:"defaultJobType"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout    time.Duration `mapstructure:"idleTimeout"`
	MaxRequestSize int64         `mapstructure:"maxRequestSize"`

	// TLS Configuration
	TLS TLSConfig `mapstructure:"tls"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"` // Valid API keys for authentication

	// Rate Limiting Configuration
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// TLSConfig holds TLS configuration
type TLSConfig struct {
	Mode     string `mapstructure:"mode"`     // TLS mode: "disabled", "server"
	CertFile string `mapstructure:"certFile"` // Server certificate file (PEM)
	KeyFile  string `mapstructure:"keyFile"`  // Server private key file (PEM)

	// Certificate content (used when loaded from Vault instead of files)
	CertContent string `mapstructure:"certContent"`
	KeyContent  string `mapstructure:"keyContent"`

	MinVersion string `mapstructure:"minVersion"` // Minimum TLS version: "1.2", "1.3"
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled"`        // Enable/disable rate limiting
	RequestsPerMin int  `mapstructure:"requestsPerMin"` // Requests allowed per minute
	BurstCapacity  int  `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
	ByIP           bool `mapstructure:"byIP"`           // Enable per-IP rate limiting
	ByAPIKey       bool `mapstructure:"byAPIKey"`       // Enable per-API-key rate limiting
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool             `mapstructure:"enabled"`
	ServiceName     string           `mapstructure:"serviceName"`
	ServiceVersion  string           `mapstructure:"serviceVersion"`
	ServiceInstance string           `mapstructure:"serviceInstance"`
	ConsoleOutput   bool             `mapstructure:"consoleOutput"`
	SampleRate      float64          `mapstructure:"sampleRate"`
	Metrics         MetricsConfig    `mapstructure:"metrics"`
	Console         ConsoleConfig    `mapstructure:"console"`
	Prometheus      PrometheusConfig `mapstructure:"prometheus"`
	OTLP            OTLPConfig       `mapstructure:"otlp"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), true)
}

func loadConfig(v *viper.Viper, searchPaths bool) (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	setDefaults(v)
	log.Println("[CONFIG] Applied default configuration values")

	v.SetEnvPrefix("PREPSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Println("[CONFIG] Configured environment variable handling with prefix 'PREPSCORE'")

	configFileUsed := ""
	if searchPaths {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/prepscore/")
		v.AddConfigPath("$HOME/.prepscore")
		v.AddConfigPath(".")
		log.Println("[CONFIG] Configured config file search paths: /etc/prepscore/, $HOME/.prepscore, .")

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			log.Println("[CONFIG] No config file found, using defaults and environment variables")
		} else {
			configFileUsed = v.ConfigFileUsed()
			log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	log.Println("[CONFIG] Successfully unmarshaled configuration")

	config.applyFallbacks()
	log.Println("[CONFIG] Applied configuration fallbacks and environment variable overrides")

	config.logConfigurationSources(configFileUsed)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Validate checks the configuration for values the engine cannot run with
func (c *Config) Validate() error {
	switch c.App.DefaultFormat {
	case "json", "text", "markdown":
	default:
		return fmt.Errorf("invalid default format: %s (must be 'json', 'text', or 'markdown')", c.App.DefaultFormat)
	}

	if c.App.MaxFileSize <= 0 {
		return fmt.Errorf("maxFileSize must be positive, got %d", c.App.MaxFileSize)
	}

	if c.Scoring.BatchWorkers < 1 {
		return fmt.Errorf("batchWorkers must be at least 1, got %d", c.Scoring.BatchWorkers)
	}

	if c.Scoring.WatchLexicon && c.Scoring.LexiconFile == "" {
		return fmt.Errorf("watchLexicon requires lexiconFile to be set")
	}

	if c.Scoring.DefaultJobType != "" && !types.JobType(c.Scoring.DefaultJobType).Valid() {
		return fmt.Errorf("invalid defaultJobType: %s", c.Scoring.DefaultJobType)
	}

	if c.Server.RateLimit.Enabled {
		if c.Server.RateLimit.RequestsPerMin <= 0 {
			return fmt.Errorf("rateLimit.requestsPerMin must be positive when rate limiting is enabled")
		}
		if c.Server.RateLimit.BurstCapacity <= 0 {
			return fmt.Errorf("rateLimit.burstCapacity must be positive when rate limiting is enabled")
		}
	}

	if c.Observability.SampleRate < 0 || c.Observability.SampleRate > 1 {
		return fmt.Errorf("observability sampleRate must be between 0 and 1, got %g", c.Observability.SampleRate)
	}

	return c.ValidateTLSConfig()
}
