package server

import "fmt"

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
}

// displayEndpoints shows available API endpoints
func (s *Server) displayEndpoints() {
	fmt.Println("Available endpoints:")
	fmt.Println("  GET  /health        - Health check")
	fmt.Println("  GET  /stats         - Server statistics")
	fmt.Println("  POST /evaluate      - Score one interview answer")
	fmt.Println("  POST /session       - Score a batch of answers")
	fmt.Println("  POST /ats           - ATS analysis of resume text")
	fmt.Println("  POST /ats/feedback  - Feedback for an existing ATS analysis")
	fmt.Println("  POST /extract       - Extract resume information")
	if s.Engine != nil {
		fmt.Printf("Lexicon version: %s\n", s.Engine.Lexicon().Version)
	}
}

// displayAuthInfo shows authentication configuration
func (s *Server) displayAuthInfo() {
	if n := s.apiKeyCount(); n > 0 {
		fmt.Printf("API authentication: ENABLED (%d keys configured)\n", n)
		fmt.Println("Include 'X-API-Key: <your-key>' header in POST requests")
		if s.keyWatch != nil {
			fmt.Println("  - Keys rotate from Vault")
		}
	} else {
		fmt.Println("API authentication: DISABLED (no API keys configured)")
		fmt.Println("WARNING: API endpoints are publicly accessible!")
	}
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Println("Request size limit: DISABLED")
		fmt.Println("WARNING: No request size limits configured!")
	}
}

// displayRateLimitInfo shows rate limiting configuration
func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Printf("Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Println("  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Println("  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Println("Rate limiting: DISABLED")
		fmt.Println("WARNING: No rate limiting configured!")
	}
}
