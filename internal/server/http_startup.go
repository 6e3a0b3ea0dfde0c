package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"prepscore/internal/config"
	"prepscore/internal/lexicon"
	"prepscore/internal/observability"
	"prepscore/internal/scoring"
)

const shutdownTimeout = 30 * time.Second

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully
func (s *Server) Start(ctx context.Context) error {
	om, err := s.initializeObservability()
	if err != nil {
		return err
	}
	defer s.shutdownObservability(om)
	s.metrics = om.GetMetrics()

	if err := s.initializeScoring(); err != nil {
		return err
	}
	defer s.stopLexiconWatcher()

	if err := s.startKeyRotation(); err != nil {
		return err
	}
	defer s.stopKeyRotation()

	httpServer := s.setupHTTPServer(om)
	if err := s.configureTLS(httpServer); err != nil {
		return err
	}

	s.displayServerInfo()

	return s.startWithGracefulShutdown(ctx, httpServer)
}

// initializeObservability sets up observability components
func (s *Server) initializeObservability() (*observability.ObservabilityManager, error) {
	obsConfig := observability.GetObservabilityConfig(s.AppConfig, s.Version)
	om, err := observability.NewObservabilityManager(obsConfig, s.AppConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	return om, nil
}

// shutdownObservability flushes exporters
func (s *Server) shutdownObservability(om *observability.ObservabilityManager) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown observability")
	}
}

// initializeScoring loads the lexicon, builds the engine when none was
// injected and starts the lexicon watcher if configured
func (s *Server) initializeScoring() error {
	cfg := s.AppConfig.Scoring

	if s.Store == nil {
		store, err := scoring.OpenLexicon(cfg)
		if err != nil {
			return fmt.Errorf("failed to load lexicon: %w", err)
		}
		s.Store = store
	}
	if s.Engine == nil {
		s.Engine = scoring.NewService(cfg, s.Store, s.metrics, s.Logger)
	}

	if !cfg.WatchLexicon || cfg.LexiconFile == "" {
		return nil
	}

	s.watcher = lexicon.NewWatcher(cfg.LexiconFile, s.Store, cfg.ReloadDebounce, func(version string, err error) {
		s.metrics.RecordLexiconReload(context.Background(), err == nil)
	}, s.Logger)
	if err := s.watcher.Start(); err != nil {
		return fmt.Errorf("failed to start lexicon watcher: %w", err)
	}
	return nil
}

func (s *Server) stopLexiconWatcher() {
	if s.watcher == nil {
		return
	}
	if err := s.watcher.Stop(); err != nil {
		s.Logger.LogError(err, "Failed to stop lexicon watcher")
	}
}

// startKeyRotation polls Vault for new API keys when a poll interval is set
func (s *Server) startKeyRotation() error {
	vaultCfg := s.AppConfig.Vault
	if !vaultCfg.Enabled || vaultCfg.PollInterval <= 0 || vaultCfg.Secrets.APIKeys == "" {
		return nil
	}

	client, err := config.NewVaultClient(vaultCfg, s.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Vault client: %w", err)
	}

	// Keys from the current version were applied while loading configuration.
	var initialVersion int64
	if secret, err := client.GetSecretV2(vaultCfg.Secrets.APIKeys); err == nil {
		initialVersion = secret.Version
	}

	s.keyWatch = NewVaultWatcher(client, vaultCfg.Secrets.APIKeys, vaultCfg.PollInterval, initialVersion,
		func(keys []string, err error) {
			if err == nil {
				s.SetAPIKeys(keys)
			}
		}, s.Logger)
	return s.keyWatch.Start()
}

func (s *Server) stopKeyRotation() {
	if s.keyWatch == nil {
		return
	}
	if err := s.keyWatch.Stop(); err != nil {
		s.Logger.LogError(err, "Failed to stop Vault watcher")
	}
}

// setupHTTPServer creates and configures the HTTP server
func (s *Server) setupHTTPServer(om *observability.ObservabilityManager) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.Host, s.Port),
		Handler:      s.setupRoutes(om),
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
}

// startWithGracefulShutdown serves until ctx is done or the listener fails
func (s *Server) startWithGracefulShutdown(ctx context.Context, server *http.Server) error {
	serverErrors := make(chan error, 1)

	go func() {
		s.Logger.Info("Starting HTTP server",
			"address", server.Addr,
			"tls_enabled", server.TLSConfig != nil)

		var err error
		if server.TLSConfig != nil {
			// Certificates are already loaded into the TLS config
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		s.Logger.Info("Received shutdown signal, starting graceful shutdown")
		return s.performGracefulShutdown(server)
	}
}

// performGracefulShutdown handles the graceful shutdown process
func (s *Server) performGracefulShutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.RateLimiter != nil {
		s.RateLimiter.Close()
		s.Logger.Info("Rate limiter cleaned up")
	}

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}
