package config

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"prepscore/internal/errors"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *errors.Logger {
	logger, _ := errors.New("debug")
	return logger
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "int64 value", input: int64(42), expected: 42},
		{name: "float64 value", input: float64(42.0), expected: 42},
		{name: "string value", input: "42", expected: 42},
		{name: "invalid string value", input: "not-a-number", expectError: true},
		{name: "unsupported type", input: []string{"42"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVersionValue(tt.input, "test/path")

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestParseKVv2(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		secret, err := parseKVv2(map[string]any{
			"data":     map[string]any{"keys": "a,b"},
			"metadata": map[string]any{"version": "3"},
		}, "secret/data/prepscore")
		require.NoError(t, err)
		assert.Equal(t, int64(3), secret.Version)
		assert.Equal(t, "a,b", secret.Data["keys"])
	})

	t.Run("missing data", func(t *testing.T) {
		_, err := parseKVv2(map[string]any{"keys": "a"}, "secret/x")
		assert.ErrorContains(t, err, "missing 'data' field")
	})

	t.Run("missing metadata", func(t *testing.T) {
		_, err := parseKVv2(map[string]any{"data": map[string]any{}}, "secret/x")
		assert.ErrorContains(t, err, "missing 'metadata' field")
	})

	t.Run("missing version", func(t *testing.T) {
		_, err := parseKVv2(map[string]any{
			"data":     map[string]any{},
			"metadata": map[string]any{},
		}, "secret/x")
		assert.ErrorContains(t, err, "missing 'version' field")
	})
}

func TestApplyAPIKeySecret(t *testing.T) {
	logger := newTestLogger()

	t.Run("replaces configured keys", func(t *testing.T) {
		config := &Config{Server: ServerConfig{APIKeys: []string{"from-file"}}}
		secret := &VaultSecret{Data: map[string]any{"keys": " k1, k2 ,,k3"}, Version: 1}

		require.NoError(t, applyAPIKeySecret(config, secret, logger))
		assert.Equal(t, []string{"k1", "k2", "k3"}, config.Server.APIKeys)
	})

	t.Run("empty value keeps existing keys", func(t *testing.T) {
		config := &Config{Server: ServerConfig{APIKeys: []string{"from-file"}}}
		secret := &VaultSecret{Data: map[string]any{"keys": ""}}

		require.NoError(t, applyAPIKeySecret(config, secret, logger))
		assert.Equal(t, []string{"from-file"}, config.Server.APIKeys)
	})

	t.Run("missing field", func(t *testing.T) {
		secret := &VaultSecret{Data: map[string]any{"other": "x"}}
		assert.ErrorContains(t, applyAPIKeySecret(&Config{}, secret, logger), "key 'keys' not found")
	})

	t.Run("non-string field", func(t *testing.T) {
		secret := &VaultSecret{Data: map[string]any{"keys": 7}}
		assert.ErrorContains(t, applyAPIKeySecret(&Config{}, secret, logger), "is not a string")
	})
}

func TestApplyTLSSecret(t *testing.T) {
	logger := newTestLogger()

	config := &Config{Server: ServerConfig{TLS: TLSConfig{CertFile: "/c.pem", KeyFile: "/k.pem"}}}
	loaded := applyTLSSecret(config, &VaultSecret{Data: map[string]any{"cert": "cert-content"}}, logger)

	assert.Equal(t, 1, loaded)
	assert.Equal(t, "cert-content", config.Server.TLS.CertContent)
	assert.Empty(t, config.Server.TLS.CertFile)
	assert.Equal(t, "/k.pem", config.Server.TLS.KeyFile)
	assert.Empty(t, config.Server.TLS.KeyContent)
}

func TestResolveVaultToken(t *testing.T) {
	logger := newTestLogger()

	t.Run("token from config", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct-token"}, logger)
		assert.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("token from file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "vault-token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token  \n"), 0600))

		token, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile}, logger)
		assert.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("missing token file", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/token/file"}, logger)
		assert.ErrorContains(t, err, "failed to read vault token file")
	})

	t.Run("no token provided", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{}, logger)
		assert.ErrorContains(t, err, "vault token is required")
		assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	})
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	config := &Config{Vault: VaultConfig{Enabled: false}}
	assert.NoError(t, ApplyVaultSecrets(config, newTestLogger()))
}

func TestGetSecretV2NilClient(t *testing.T) {
	var vc *VaultClient
	_, err := vc.GetSecretV2("secret/data/x")
	assert.ErrorContains(t, err, "vault client not initialized")
	assert.True(t, errors.IsType(err, errors.ErrorTypeInternal))
}

// unreachableVault returns an API client whose server has already shut down
func unreachableVault(t *testing.T) (*api.Client, string) {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	address := srv.URL
	srv.Close()

	cfg := api.DefaultConfig()
	cfg.Address = address
	cfg.MaxRetries = 0
	client, err := api.NewClient(cfg)
	require.NoError(t, err)
	return client, address
}

func TestVaultUnreachableIsNetworkError(t *testing.T) {
	client, address := unreachableVault(t)

	err := testVaultConnection(client, address, newTestLogger())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNetwork))
	assert.Contains(t, err.Error(), errors.ErrCodeVaultUnavailable)

	vc := &VaultClient{client: client, logger: newTestLogger()}
	_, err = vc.GetSecretV2("secret/data/prepscore/api-keys")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNetwork))
	assert.Contains(t, err.Error(), "failed to read secret from secret/data/prepscore/api-keys")
}
