package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"prepscore/internal/errors"

	"github.com/hashicorp/vault/api"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	// PollInterval enables API key rotation from Vault while serving. Zero
	// reads the keys once at startup.
	PollInterval time.Duration `mapstructure:"pollInterval"`

	// Secret paths
	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets defines where to find secrets in Vault
type VaultSecrets struct {
	// APIKeys expects a single comma-separated string under the "keys" field
	APIKeys  string `mapstructure:"apiKeys"`
	TLSCerts string `mapstructure:"tlsCerts"` // "cert" and "key" fields hold PEM content
}

// VaultClient wraps the Vault API client
type VaultClient struct {
	client *api.Client
	config VaultConfig
	logger *errors.Logger
}

// NewVaultClient creates a new Vault client from configuration
func NewVaultClient(config VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !config.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled")
		}
		return nil, nil
	}

	if logger != nil {
		logger.Debug("Initializing Vault client",
			"address", config.Address,
			"namespace", config.Namespace,
			"token_file", config.TokenFile,
			"has_token", config.Token != "")
	}

	client, err := createVaultAPIClient(config, logger)
	if err != nil {
		return nil, err
	}

	token, err := resolveVaultToken(config, logger)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	if err := testVaultConnection(client, config.Address, logger); err != nil {
		return nil, err
	}

	return &VaultClient{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// createVaultAPIClient creates and configures the Vault API client
func createVaultAPIClient(config VaultConfig, logger *errors.Logger) (*api.Client, error) {
	vaultConfig := api.DefaultConfig()
	if config.Address != "" {
		vaultConfig.Address = config.Address
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		if logger != nil {
			logger.LogError(err, "Failed to create Vault client")
		}
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	return client, nil
}

// resolveVaultToken resolves the Vault token from config or file
func resolveVaultToken(config VaultConfig, logger *errors.Logger) (string, error) {
	token := config.Token

	if token == "" && config.TokenFile != "" {
		tokenBytes, err := os.ReadFile(config.TokenFile)
		if err != nil {
			if logger != nil {
				logger.LogError(err, "Failed to read Vault token file", "file", config.TokenFile)
			}
			return "", errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to read vault token file", err)
		}
		token = strings.TrimSpace(string(tokenBytes))
	}

	if token == "" {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig, "vault token is required when vault is enabled", nil)
	}

	return token, nil
}

// testVaultConnection tests the connection to Vault
func testVaultConnection(client *api.Client, address string, logger *errors.Logger) error {
	health, err := client.Sys().Health()
	if err != nil {
		if logger != nil {
			logger.LogError(err, "Failed to connect to Vault", "address", address)
		}
		return errors.NewNetworkError(errors.ErrCodeVaultUnavailable,
			fmt.Sprintf("failed to connect to vault at %s", address), err)
	}

	if logger != nil {
		logger.Info("Successfully connected to Vault",
			"address", address,
			"version", health.Version,
			"sealed", health.Sealed)
	}

	return nil
}

// VaultSecret represents a secret read from Vault's KVv2 engine.
type VaultSecret struct {
	Data    map[string]any
	Version int64
}

// GetSecretV2 retrieves a secret from a Vault KVv2 store.
func (vc *VaultClient) GetSecretV2(path string) (*VaultSecret, error) {
	if vc == nil {
		return nil, errors.NewInternalError(errors.ErrCodeVaultNotInitialized, "vault client not initialized", nil)
	}

	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		if vc.logger != nil {
			vc.logger.LogError(err, "Failed to read secret from Vault", "path", path)
		}
		return nil, errors.NewNetworkError(errors.ErrCodeVaultUnavailable,
			fmt.Sprintf("failed to read secret from %s", path), err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}

	return parseKVv2(secret.Data, path)
}

// parseKVv2 unpacks the data and metadata.version fields of a KVv2 read
func parseKVv2(raw map[string]any, path string) (*VaultSecret, error) {
	data, ok := raw["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'data' field)", path)
	}

	metadata, ok := raw["metadata"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'metadata' field)", path)
	}

	versionRaw, ok := metadata["version"]
	if !ok {
		return nil, fmt.Errorf("secret metadata at %s is missing 'version' field", path)
	}

	version, err := parseVersionValue(versionRaw, path)
	if err != nil {
		return nil, err
	}

	return &VaultSecret{Data: data, Version: version}, nil
}

// parseVersionValue parses version value from various types
func parseVersionValue(versionRaw any, path string) (int64, error) {
	switch v := versionRaw.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		version, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse secret version at %s: %w", path, err)
		}
		return version, nil
	default:
		return 0, fmt.Errorf("unexpected type for version at %s: %T", path, versionRaw)
	}
}

// StringField returns a string field of the secret
func (s *VaultSecret) StringField(key string) (string, error) {
	value, ok := s.Data[key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret", key)
	}
	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("value for key '%s' is not a string", key)
	}
	return str, nil
}

// APIKeys returns the comma-separated "keys" field as a trimmed list
func (s *VaultSecret) APIKeys() ([]string, error) {
	value, err := s.StringField("keys")
	if err != nil {
		return nil, err
	}
	return splitKeys(value), nil
}

// ApplyVaultSecrets loads secrets from Vault and applies them to the config
func ApplyVaultSecrets(config *Config, logger *errors.Logger) error {
	if !config.Vault.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled, skipping secret loading")
		}
		return nil
	}

	client, err := NewVaultClient(config.Vault, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}

	if path := config.Vault.Secrets.APIKeys; path != "" {
		secret, err := client.GetSecretV2(path)
		if err != nil {
			return fmt.Errorf("failed to load API keys from vault: %w", err)
		}
		if err := applyAPIKeySecret(config, secret, logger); err != nil {
			return fmt.Errorf("failed to load API keys from vault: %w", err)
		}
	}

	if path := config.Vault.Secrets.TLSCerts; path != "" {
		secret, err := client.GetSecretV2(path)
		if err != nil {
			return fmt.Errorf("failed to load TLS certificates from vault: %w", err)
		}
		applyTLSSecret(config, secret, logger)
	}

	return nil
}

// applyAPIKeySecret replaces the server API keys with the secret's "keys" field
func applyAPIKeySecret(config *Config, secret *VaultSecret, logger *errors.Logger) error {
	keys, err := secret.APIKeys()
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		if logger != nil {
			logger.Warn("No API keys found in Vault secret")
		}
		return nil
	}

	config.Server.APIKeys = keys
	if logger != nil {
		logger.Info("API keys loaded from Vault", "count", len(keys), "version", secret.Version)
	}
	return nil
}

// applyTLSSecret copies PEM content into the TLS config. Content from Vault
// replaces any configured file of the same kind.
func applyTLSSecret(config *Config, secret *VaultSecret, logger *errors.Logger) int {
	loaded := 0
	if cert, err := secret.StringField("cert"); err == nil && cert != "" {
		config.Server.TLS.CertContent = cert
		config.Server.TLS.CertFile = ""
		loaded++
	}
	if key, err := secret.StringField("key"); err == nil && key != "" {
		config.Server.TLS.KeyContent = key
		config.Server.TLS.KeyFile = ""
		loaded++
	}
	if logger != nil {
		logger.Info("TLS certificates loaded from Vault", "certificates_loaded", loaded)
	}
	return loaded
}
