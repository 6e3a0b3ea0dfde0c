package server

import (
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"prepscore/internal/config"
	"prepscore/internal/errors"

	"github.com/sony/gobreaker/v2"
)

// Consecutive read failures that open the breaker, and how many poll
// intervals it stays open before a single trial read
const (
	vaultBreakerFailures  = 3
	vaultBreakerIntervals = 5
)

// VaultClientInterface defines the Vault operations the watcher needs
type VaultClientInterface interface {
	GetSecretV2(path string) (*config.VaultSecret, error)
}

// KeysCallback receives a rotated API key list, or the error that stopped
// it from being read
type KeysCallback func(keys []string, err error)

// VaultWatcher polls a Vault KVv2 secret holding the server API keys and
// hands new keys to the callback whenever the secret version increases
type VaultWatcher struct {
	mu sync.RWMutex

	client       VaultClientInterface
	secretPath   string
	pollInterval time.Duration
	callback     KeysCallback
	logger       *errors.Logger
	breaker      *gobreaker.CircuitBreaker[*config.VaultSecret]

	stopChan    chan struct{}
	running     bool
	lastVersion int64
	lastCheck   time.Time
	rotations   int
}

// NewVaultWatcher creates a new VaultWatcher. initialVersion is the secret
// version already applied at startup.
func NewVaultWatcher(client VaultClientInterface, secretPath string, pollInterval time.Duration, initialVersion int64, callback KeysCallback, logger *errors.Logger) *VaultWatcher {
	return &VaultWatcher{
		client:       client,
		secretPath:   secretPath,
		pollInterval: pollInterval,
		callback:     callback,
		logger:       logger,
		breaker:      newVaultBreaker(secretPath, pollInterval, logger),
		stopChan:     make(chan struct{}),
		lastVersion:  initialVersion,
	}
}

// newVaultBreaker stops the watcher from hammering an unavailable Vault.
// While open, polls fail fast with gobreaker.ErrOpenState.
func newVaultBreaker(secretPath string, pollInterval time.Duration, logger *errors.Logger) *gobreaker.CircuitBreaker[*config.VaultSecret] {
	settings := gobreaker.Settings{
		Name:        "vault-" + secretPath,
		MaxRequests: 1,
		Timeout:     vaultBreakerIntervals * pollInterval,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= vaultBreakerFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Warn("Vault circuit breaker state changed",
					"name", name,
					"from", from.String(),
					"to", to.String())
			}
		},
	}
	return gobreaker.NewCircuitBreaker[*config.VaultSecret](settings)
}

// Start begins polling Vault for secret changes
func (vw *VaultWatcher) Start() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if vw.running {
		return fmt.Errorf("vault watcher is already running")
	}
	if vw.pollInterval <= 0 {
		return fmt.Errorf("vault poll interval must be positive")
	}
	vw.running = true
	go vw.pollLoop()
	if vw.logger != nil {
		vw.logger.Info("Vault API key watcher started", "secret_path", vw.secretPath, "poll_interval", vw.pollInterval)
	}
	return nil
}

// Stop stops the Vault watcher
func (vw *VaultWatcher) Stop() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if !vw.running {
		return nil
	}
	close(vw.stopChan)
	vw.running = false
	if vw.logger != nil {
		vw.logger.Info("Vault API key watcher stopped")
	}
	return nil
}

func (vw *VaultWatcher) pollLoop() {
	ticker := time.NewTicker(vw.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			vw.poll()
		case <-vw.stopChan:
			return
		}
	}
}

// poll reads the secret once and fires the callback on a newer version
func (vw *VaultWatcher) poll() {
	keys, changed, err := vw.checkForUpdates()
	if err != nil {
		if vw.logger != nil {
			if stderrors.Is(err, gobreaker.ErrOpenState) {
				vw.logger.Debug("Skipping Vault poll while circuit breaker is open", "secret_path", vw.secretPath)
			} else {
				vw.logger.LogError(err, "Failed to check Vault for API key updates")
			}
		}
		vw.callback(nil, err)
		return
	}
	if !changed {
		return
	}
	if vw.logger != nil {
		vw.logger.Info("API keys rotated from Vault", "count", len(keys), "version", vw.version())
	}
	vw.callback(keys, nil)
}

// checkForUpdates reports the secret's keys when its version moved forward.
// A newer version without any keys is treated as an error so the server
// never ends up with authentication silently disabled.
func (vw *VaultWatcher) checkForUpdates() ([]string, bool, error) {
	secret, err := vw.breaker.Execute(func() (*config.VaultSecret, error) {
		return vw.client.GetSecretV2(vw.secretPath)
	})

	vw.mu.Lock()
	defer vw.mu.Unlock()
	vw.lastCheck = time.Now()

	if err != nil {
		return nil, false, fmt.Errorf("failed to read secret: %w", err)
	}
	if secret == nil {
		return nil, false, fmt.Errorf("secret not found at path: %s", vw.secretPath)
	}
	if secret.Version <= vw.lastVersion {
		return nil, false, nil
	}

	keys, err := secret.APIKeys()
	if err != nil {
		return nil, false, err
	}
	if len(keys) == 0 {
		return nil, false, fmt.Errorf("secret version %d at %s has no API keys", secret.Version, vw.secretPath)
	}

	vw.lastVersion = secret.Version
	vw.rotations++
	return keys, true, nil
}

func (vw *VaultWatcher) version() int64 {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	return vw.lastVersion
}

// Status returns the current status of the VaultWatcher for /stats
func (vw *VaultWatcher) Status() map[string]any {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	status := map[string]any{
		"running":       vw.running,
		"poll_interval": vw.pollInterval.String(),
		"secret_path":   vw.secretPath,
		"last_version":  vw.lastVersion,
		"rotations":     vw.rotations,
		"breaker_state": vw.breaker.State().String(),
	}
	if !vw.lastCheck.IsZero() {
		status["last_check"] = vw.lastCheck.UTC().Format(time.RFC3339)
	}
	return status
}
