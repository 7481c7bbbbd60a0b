package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/alexanderramin/opsassist/internal/governance"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	serviceHeader = "X-Service-Name"
	serviceName   = "opsassist"
)

func serviceHeaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(serviceHeader, serviceName)
		c.Next()
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	cfg.ExposeHeaders = []string{serviceHeader, "Retry-After"}
	cfg.MaxAge = 12 * time.Hour

	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// clientLimiters hands out one token bucket per client IP.
type clientLimiters struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*clientLimiter
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const (
	limiterSweepSize = 10000
	limiterIdleTTL   = 10 * time.Minute
)

func newClientLimiters(rps float64, burst int) *clientLimiters {
	return &clientLimiters{
		limit:    rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*clientLimiter),
	}
}

func (l *clientLimiters) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.limiters) >= limiterSweepSize {
		for k, cl := range l.limiters {
			if now.Sub(cl.lastSeen) > limiterIdleTTL {
				delete(l.limiters, k)
			}
		}
	}

	cl, ok := l.limiters[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

func rateLimitMiddleware(limiters *clientLimiters, logger *slog.Logger) gin.HandlerFunc {
	retryAfter := "1"
	if limiters.limit > 0 && limiters.limit < 1 {
		retryAfter = strconv.Itoa(int(1/float64(limiters.limit)) + 1)
	}
	return func(c *gin.Context) {
		if !limiters.allow(c.ClientIP(), time.Now()) {
			logger.WarnContext(c.Request.Context(), "rate_limit_exceeded", "client_ip", c.ClientIP())
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorBody{Error: "too many requests"})
			return
		}
		c.Next()
	}
}

// accessLogMiddleware logs one line per request. Query strings are masked
// since they may carry credentials or personal data.
func accessLogMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			attrs = append(attrs, "query", governance.MaskSecrets(q))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.Last().Error())
		}

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		logger.Log(c.Request.Context(), level, "http_request", attrs...)
	}
}

func recoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.ErrorContext(c.Request.Context(), "http_panic", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Error: "internal error"})
	})
}
