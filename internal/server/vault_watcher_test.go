package server

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"prepscore/internal/config"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockVaultClient is a mock implementation for testing
type MockVaultClient struct {
	mu      sync.Mutex
	secrets map[string]*config.VaultSecret
	err     error
	calls   int
}

func (m *MockVaultClient) GetSecretV2(path string) (*config.VaultSecret, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.secrets[path], nil
}

func (m *MockVaultClient) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockVaultClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockVaultClient) set(path string, version int64, keys string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[path] = &config.VaultSecret{Data: map[string]any{"keys": keys}, Version: version}
}

func TestVaultWatcherCheckForUpdates(t *testing.T) {
	client := &MockVaultClient{secrets: map[string]*config.VaultSecret{}}
	client.set("secret/data/prepscore/api-keys", 2, "alpha, beta")

	vw := NewVaultWatcher(client, "secret/data/prepscore/api-keys", time.Minute, 1, func([]string, error) {}, nil)

	keys, changed, err := vw.checkForUpdates()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"alpha", "beta"}, keys)

	_, changed, err = vw.checkForUpdates()
	require.NoError(t, err)
	assert.False(t, changed, "same version must not rotate again")

	status := vw.Status()
	assert.Equal(t, int64(2), status["last_version"])
	assert.Equal(t, 1, status["rotations"])
	assert.Contains(t, status, "last_check")
}

func TestVaultWatcherSkipsAlreadyAppliedVersion(t *testing.T) {
	client := &MockVaultClient{secrets: map[string]*config.VaultSecret{}}
	client.set("keys", 3, "alpha")

	vw := NewVaultWatcher(client, "keys", time.Minute, 3, func([]string, error) {}, nil)
	_, changed, err := vw.checkForUpdates()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestVaultWatcherRejectsEmptyKeyList(t *testing.T) {
	client := &MockVaultClient{secrets: map[string]*config.VaultSecret{}}
	client.set("keys", 2, " , ")

	vw := NewVaultWatcher(client, "keys", time.Minute, 1, func([]string, error) {}, nil)
	_, changed, err := vw.checkForUpdates()
	assert.ErrorContains(t, err, "has no API keys")
	assert.False(t, changed)
	assert.Equal(t, int64(1), vw.version())
}

func TestVaultWatcherPollReportsErrors(t *testing.T) {
	client := &MockVaultClient{err: fmt.Errorf("connection refused")}

	var gotErr error
	vw := NewVaultWatcher(client, "keys", time.Minute, 0, func(keys []string, err error) {
		gotErr = err
	}, nil)
	vw.poll()
	assert.ErrorContains(t, gotErr, "connection refused")
}

func TestVaultWatcherBreakerOpensOnRepeatedFailures(t *testing.T) {
	client := &MockVaultClient{secrets: map[string]*config.VaultSecret{}}
	client.fail(fmt.Errorf("connection refused"))

	vw := NewVaultWatcher(client, "keys", 10*time.Millisecond, 1, func([]string, error) {}, nil)
	for range vaultBreakerFailures {
		_, _, err := vw.checkForUpdates()
		assert.ErrorContains(t, err, "connection refused")
	}
	assert.Equal(t, vaultBreakerFailures, client.callCount())
	assert.Equal(t, "open", vw.Status()["breaker_state"])

	_, _, err := vw.checkForUpdates()
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, vaultBreakerFailures, client.callCount(), "open breaker must not reach Vault")

	client.fail(nil)
	client.set("keys", 2, "rotated")
	assert.Eventually(t, func() bool {
		keys, changed, err := vw.checkForUpdates()
		return err == nil && changed && len(keys) == 1 && keys[0] == "rotated"
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "closed", vw.Status()["breaker_state"])
}

func TestVaultWatcherRotatesServerKeys(t *testing.T) {
	client := &MockVaultClient{secrets: map[string]*config.VaultSecret{}}
	client.set("keys", 1, "old-key")

	srv := newTestServer(t, nil, []string{"old-key"})
	vw := NewVaultWatcher(client, "keys", 10*time.Millisecond, 1, func(keys []string, err error) {
		if err == nil {
			srv.SetAPIKeys(keys)
		}
	}, nil)
	require.NoError(t, vw.Start())
	defer func() { _ = vw.Stop() }()
	assert.Error(t, vw.Start())

	client.set("keys", 2, "new-key")
	assert.Eventually(t, func() bool {
		return srv.validAPIKey("new-key") && !srv.validAPIKey("old-key")
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, vw.Stop())
	assert.NoError(t, vw.Stop())
}

func TestVaultWatcherRequiresInterval(t *testing.T) {
	vw := NewVaultWatcher(&MockVaultClient{}, "keys", 0, 0, func([]string, error) {}, nil)
	assert.ErrorContains(t, vw.Start(), "poll interval must be positive")
}
