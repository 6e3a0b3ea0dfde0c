package server

import (
	"sync"
	"time"

	"prepscore/internal/config"
	prepErrors "prepscore/internal/errors"
	"prepscore/internal/lexicon"
	"prepscore/internal/observability"
	"prepscore/internal/scoring"
	"prepscore/internal/types"

	"github.com/go-playground/validator/v10"
)

// EvaluateRequest represents the request body for the evaluate endpoint
type EvaluateRequest struct {
	QuestionID   string `json:"questionId"`
	Question     string `json:"question"`
	QuestionType string `json:"questionType" validate:"required,questiontype"`
	Answer       string `json:"answer"`
}

// ATSRequest represents the request body for the ats endpoint
type ATSRequest struct {
	ResumeText string `json:"resumeText"`
	JobType    string `json:"jobType"`
}

// ATSFeedbackRequest represents the request body for the ats/feedback endpoint
type ATSFeedbackRequest struct {
	Score    *int              `json:"score" validate:"required,min=0,max=100"`
	Analysis types.ATSAnalysis `json:"analysis"`
}

// ExtractRequest represents the request body for the extract endpoint
type ExtractRequest struct {
	ResumeText string `json:"resumeText" validate:"required"`
}

// SessionRequest represents the request body for the session endpoint
type SessionRequest struct {
	Answers []EvaluateRequest `json:"answers" validate:"required,min=1,max=100,dive"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	TLSConfig config.TLSConfig

	// Scoring engine and the lexicon store it reads from. Start fills both
	// in when they are nil.
	Engine scoring.Engine
	Store  *lexicon.Store

	// API Authentication. apiKeys is swapped when Vault rotates the keys.
	keysMu  sync.RWMutex
	apiKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Logger *prepErrors.Logger

	metrics   *observability.Metrics
	validate  *validator.Validate
	watcher   *lexicon.Watcher
	keyWatch  *VaultWatcher
	counters  *requestCounters
	startedAt time.Time
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// ServerConfigFrom builds a ServerConfig from the application configuration
func ServerConfigFrom(cfg *config.Config, version string) ServerConfig {
	rateLimit := cfg.Server.RateLimit
	return ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		RateLimit:      &rateLimit,
	}
}

// NewServer creates a new Server instance. engine may be nil, in which case
// Start builds one from the scoring configuration.
func NewServer(appCfg *config.Config, cfg ServerConfig, engine scoring.Engine, logger *prepErrors.Logger) *Server {
	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstCapacity, logger)
	}

	s := &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		Engine:         engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
		validate:       newValidator(),
		counters:       newRequestCounters(),
		startedAt:      time.Now(),
	}
	s.SetAPIKeys(cfg.APIKeys)
	return s
}

// SetAPIKeys replaces the accepted API keys. An empty list disables
// authentication.
func (s *Server) SetAPIKeys(keys []string) {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	s.keysMu.Lock()
	s.apiKeys = apiKeyMap
	s.keysMu.Unlock()
}

func (s *Server) apiKeyCount() int {
	s.keysMu.RLock()
	defer s.keysMu.RUnlock()
	return len(s.apiKeys)
}

func (s *Server) validAPIKey(key string) bool {
	s.keysMu.RLock()
	defer s.keysMu.RUnlock()
	return s.apiKeys[key]
}

// newValidator returns a validator that knows the questiontype tag
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("questiontype", func(fl validator.FieldLevel) bool {
		_, err := types.ParseQuestionType(fl.Field().String())
		return err == nil
	})
	return v
}

// toAnswerInput converts a validated request into scoring input
func (r EvaluateRequest) toAnswerInput() types.AnswerInput {
	// questiontype validation has already accepted the value
	qt, _ := types.ParseQuestionType(r.QuestionType)
	return types.AnswerInput{
		QuestionID:   r.QuestionID,
		Question:     r.Question,
		QuestionType: qt,
		Answer:       r.Answer,
	}
}
