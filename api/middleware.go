package api

import (
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"pdffusion/entitlement"
	"pdffusion/logging"
)

const entitlementKey = "entitlement"

// CORS allows the website origins to call the API from the browser. A "*"
// origin allows everyone but without credentials, which browsers refuse
// to combine with a wildcard.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", "Content-Length", RequestIDHeader, WarningsHeader, WarningsTotalHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if slices.Contains(allowedOrigins, "*") {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cors.New(cfg)
}

// RequestLogger assigns a request ID, attaches a request-scoped logger to the
// request context and logs the outcome of every request.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		reqLogger := logger.With(logging.F("request_id", requestID))
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), reqLogger))

		start := time.Now()
		c.Next()

		reqLogger.Info("request",
			logging.F("method", c.Request.Method),
			logging.F("path", c.Request.URL.Path),
			logging.F("status", c.Writer.Status()),
			logging.F("latency_ms", time.Since(start).Milliseconds()),
			logging.F("client_ip", c.ClientIP()),
			logging.F("pro", currentEntitlement(c).Pro),
		)
	}
}

// Entitlements resolves the caller's subscription from a bearer token. It
// never rejects: a missing or invalid token means the free tier.
func Entitlements(verifier *entitlement.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ent := entitlement.Free
		authHeader := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok && verifier.Enabled() {
			verified, err := verifier.Verify(token)
			if err != nil {
				logging.FromContext(c.Request.Context()).Debug("ignoring entitlement token", logging.F("error", err))
			} else {
				ent = verified
			}
		}
		c.Set(entitlementKey, ent)
		c.Next()
	}
}

func currentEntitlement(c *gin.Context) entitlement.Entitlement {
	if v, ok := c.Get(entitlementKey); ok {
		if ent, ok := v.(entitlement.Entitlement); ok {
			return ent
		}
	}
	return entitlement.Free
}

// RateLimiter is a per-IP token bucket. Pro callers are not limited.
type RateLimiter struct {
	rps   rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*client
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*client),
	}
}

func (rl *RateLimiter) allow(ip string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, found := rl.clients[ip]
	if !found {
		cl = &client{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// Prune drops clients idle for longer than idle
func (rl *RateLimiter) Prune(idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, cl := range rl.clients {
		if time.Since(cl.lastSeen) > idle {
			delete(rl.clients, ip)
		}
	}
}

// Middleware returns the gin handler enforcing the limit
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentEntitlement(c).Pro {
			c.Next()
			return
		}
		if !rl.allow(c.ClientIP(), time.Now()) {
			respondError(c, newAppError(CodeRateLimited, http.StatusTooManyRequests, "Too many requests, try again shortly"))
			return
		}
		c.Next()
	}
}
