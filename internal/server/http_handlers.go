package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
)

// requestCounters tracks per-operation request and failure totals for /stats
type requestCounters struct {
	mu       sync.Mutex
	requests map[string]*atomic.Int64
	failures map[string]*atomic.Int64
}

func newRequestCounters() *requestCounters {
	return &requestCounters{
		requests: make(map[string]*atomic.Int64),
		failures: make(map[string]*atomic.Int64),
	}
}

func (c *requestCounters) counter(m map[string]*atomic.Int64, operation string) *atomic.Int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := m[operation]
	if !ok {
		n = &atomic.Int64{}
		m[operation] = n
	}
	return n
}

func (c *requestCounters) request(operation string) {
	c.counter(c.requests, operation).Add(1)
}

func (c *requestCounters) failure(operation string) {
	c.counter(c.failures, operation).Add(1)
}

func (c *requestCounters) snapshot() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]any, len(c.requests))
	for op, n := range c.requests {
		var failed int64
		if f, ok := c.failures[op]; ok {
			failed = f.Load()
		}
		out[op] = map[string]int64{"requests": n.Load(), "failures": failed}
	}
	return out
}

// healthHandler reports liveness and the active lexicon
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":         "healthy",
		"service":        "prepscore",
		"version":        s.Version,
		"uptime_seconds": int(time.Since(s.startedAt).Seconds()),
	}

	status := http.StatusOK
	if s.Engine == nil {
		response["status"] = "degraded"
		response["error"] = "scoring engine not initialized"
		status = http.StatusServiceUnavailable
	} else {
		lexStatus := map[string]any{"version": s.Engine.Lexicon().Version}
		if s.watcher != nil {
			lexStatus["watching"] = s.watcher.IsRunning()
		}
		response["lexicon"] = lexStatus
	}

	writeJSON(w, status, response)
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "prepscore",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"api_keys_configured":    s.apiKeyCount(),
			"uptime_seconds":         int(time.Since(s.startedAt).Seconds()),
		},
		"requests": s.counters.snapshot(),
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	if s.Engine != nil {
		response["lexicon"] = s.Engine.Lexicon().Stats()
	}
	if s.keyWatch != nil {
		response["api_key_rotation"] = s.keyWatch.Status()
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// extractValidationErrors renders validator failures as one message
func extractValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "validation error: invalid request"
	}

	parts := make([]string, 0, len(validationErrors))
	for _, ve := range validationErrors {
		switch ve.Tag() {
		case "questiontype":
			parts = append(parts, fmt.Sprintf("%s: unknown question type %q", ve.Namespace(), ve.Value()))
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", ve.Namespace()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", ve.Namespace(), ve.Tag(), ve.Param()))
		}
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, r *http.Request, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:     error,
		Message:   message,
		RequestID: requestIDFrom(r.Context()),
	})
}
