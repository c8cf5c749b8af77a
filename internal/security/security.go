package security

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sewasmart/sewasmart/internal/monitoring"
	"github.com/sewasmart/sewasmart/internal/types"
)

// SecurityConfig holds security configuration
type SecurityConfig struct {
	MaxSelectionLength int           `json:"max_selection_length"`
	MaxSelections      int           `json:"max_selections"`
	MaxRequestsPerMin  int           `json:"max_requests_per_min"`
	AllowedOrigins     []string      `json:"allowed_origins"`
	TrustedProxies     []string      `json:"trusted_proxies"`
	RequestTimeout     time.Duration `json:"request_timeout"`
}

// DefaultSecurityConfig returns secure defaults. A questionnaire answer is
// a short option label; anything longer is hostile or broken.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxSelectionLength: 200,
		MaxSelections:      32,
		MaxRequestsPerMin:  60,
		AllowedOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		TrustedProxies:     []string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"},
		RequestTimeout:     30 * time.Second,
	}
}

// SecurityMiddleware provides comprehensive security middleware
type SecurityMiddleware struct {
	config      SecurityConfig
	metrics     *monitoring.Metrics
	ipLimiters  map[string]*rate.Limiter
	limiterMu   sync.Mutex
	cleanupStop chan struct{}
}

// NewSecurityMiddleware creates a new security middleware instance
func NewSecurityMiddleware(config SecurityConfig, metrics *monitoring.Metrics) *SecurityMiddleware {
	return &SecurityMiddleware{
		config:     config,
		metrics:    metrics,
		ipLimiters: make(map[string]*rate.Limiter),
	}
}

// Config returns the active security configuration.
func (sm *SecurityMiddleware) Config() SecurityConfig {
	return sm.config
}

// ValidateSelection checks one questionnaire answer string. Domain
// membership is enforced later by the encoder; this rejects payloads that
// have no business being an option label at all.
func (sm *SecurityMiddleware) ValidateSelection(value string) error {
	if len(value) > sm.config.MaxSelectionLength {
		return fmt.Errorf("selection exceeds maximum length of %d characters", sm.config.MaxSelectionLength)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("selection contains invalid characters")
	}

	if !utf8.ValidString(value) {
		return fmt.Errorf("selection contains invalid UTF-8 encoding")
	}

	suspiciousPatterns := []string{
		`<script`, `</script>`, `javascript:`,
		`union select`, `drop table`, `alter table`,
		`--`, `/*`, `*/`, `xp_`, `sp_`,
	}

	lowered := strings.ToLower(value)
	for _, pattern := range suspiciousPatterns {
		if strings.Contains(lowered, pattern) {
			return fmt.Errorf("selection contains suspicious patterns")
		}
	}

	return nil
}

// RateLimitByIP implements per-IP rate limiting
func (sm *SecurityMiddleware) RateLimitByIP(c *gin.Context) {
	clientIP := c.ClientIP()

	sm.limiterMu.Lock()
	limiter, exists := sm.ipLimiters[clientIP]
	if !exists {
		rps := rate.Limit(float64(sm.config.MaxRequestsPerMin) / 60.0)
		burst := sm.config.MaxRequestsPerMin / 2
		if burst < 5 {
			burst = 5
		}
		limiter = rate.NewLimiter(rps, burst)
		sm.ipLimiters[clientIP] = limiter
	}
	sm.limiterMu.Unlock()

	if !limiter.Allow() {
		sm.metrics.IncrementRateLimitIPBlock()
		sm.metrics.IncrementRateLimitEndpoint(c.Request.URL.Path)
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":       "rate limit exceeded for IP",
			"retry_after": "60", // seconds
		})
		c.Abort()
		return
	}

	c.Next()
}

// SecurityHeaders adds security headers to responses
func (sm *SecurityMiddleware) SecurityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")
	c.Header("X-XSS-Protection", "1; mode=block")

	if c.Request.TLS != nil {
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}

	c.Header("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; connect-src 'self'")
	c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
	c.Header("Permissions-Policy", "camera=(), microphone=()")

	c.Next()
}

// ValidateContentType validates request content type
func (sm *SecurityMiddleware) ValidateContentType(c *gin.Context) {
	contentType := c.GetHeader("Content-Type")

	allowedTypes := []string{
		"application/json",
		"application/x-www-form-urlencoded",
		"multipart/form-data",
	}

	if contentType != "" {
		found := false
		for _, allowed := range allowedTypes {
			if strings.Contains(strings.ToLower(contentType), allowed) {
				found = true
				break
			}
		}

		if !found {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{
				"error": "unsupported content type",
			})
			c.Abort()
			return
		}
	}

	c.Next()
}

// RequestTimeout enforces request timeout
func (sm *SecurityMiddleware) RequestTimeout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), sm.config.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)

	c.Header("X-Timeout", strconv.Itoa(int(sm.config.RequestTimeout.Seconds())))

	c.Next()
}

// ValidateEvaluateRequest screens evaluate request bodies before they reach
// the handler. Structural and hostile-input checks only; option domains and
// policy bounds belong to the evaluation pipeline.
func (sm *SecurityMiddleware) ValidateEvaluateRequest(c *gin.Context) {
	if c.Request.Method != "POST" || !strings.HasPrefix(c.Request.URL.Path, "/evaluate") {
		c.Next()
		return
	}

	var req types.EvaluateRequest
	if err := c.ShouldBindBodyWithJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: " + err.Error(),
		})
		c.Abort()
		return
	}

	if len(req.Selections) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "selections field is required",
		})
		c.Abort()
		return
	}
	if len(req.Selections) > sm.config.MaxSelections {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("too many selections (max %d)", sm.config.MaxSelections),
		})
		c.Abort()
		return
	}

	for name, value := range req.Selections {
		if err := sm.ValidateSelection(name); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("selection name validation failed: %v", err),
			})
			c.Abort()
			return
		}
		if err := sm.ValidateSelection(value); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("selection validation failed for %q: %v", name, err),
			})
			c.Abort()
			return
		}
	}

	if err := sm.ValidateSelection(req.Model); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("model validation failed: %v", err),
		})
		c.Abort()
		return
	}

	c.Next()
}

// StartCleanup begins the hourly limiter sweep in a goroutine.
func (sm *SecurityMiddleware) StartCleanup() {
	sm.cleanupStop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sm.limiterMu.Lock()
				// Limiters are cheap; dropping the whole map hourly bounds
				// growth without tracking last-seen times per IP.
				if len(sm.ipLimiters) > 10000 {
					sm.ipLimiters = make(map[string]*rate.Limiter)
				}
				sm.limiterMu.Unlock()

			case <-sm.cleanupStop:
				return
			}
		}
	}()
}

// StopCleanup stops the limiter sweep.
func (sm *SecurityMiddleware) StopCleanup() {
	if sm.cleanupStop != nil {
		close(sm.cleanupStop)
	}
}
