package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/library-api/backend/internal/model"
	"github.com/library-api/backend/internal/service"
	"golang.org/x/time/rate"
)

const (
	authUserKey  = "auth_user"
	authTokenKey = "auth_token"
	requestIDKey = "request_id"

	tokenCookieName = "token"
)

// GetAuthUser returns the principal attached by RequireAuth/OptionalAuth,
// or nil for anonymous requests.
func GetAuthUser(c *gin.Context) *model.User {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.User); ok {
			return user
		}
	}
	return nil
}

// GetAuthToken returns the raw bearer token the request presented.
func GetAuthToken(c *gin.Context) string {
	if value, ok := c.Get(authTokenKey); ok {
		if token, ok := value.(string); ok {
			return token
		}
	}
	return ""
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(tokenCookieName); err == nil {
		return cookie
	}
	return ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
		Success: false,
		Error:   message,
	})
}

// RequireAuth gates a route on a valid, unrevoked token whose principal
// still exists. The order matters: revocation first, then signature and
// expiry, then principal lookup.
func RequireAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c, "Access denied. No token provided.")
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenRevoked):
				abortUnauthorized(c, "Access denied. Token is no longer valid.")
			case errors.Is(err, service.ErrUserNotFound):
				abortUnauthorized(c, "Access denied. User not found.")
			default:
				abortUnauthorized(c, "Access denied. Invalid token.")
			}
			return
		}

		c.Set(authUserKey, user)
		c.Set(authTokenKey, token)
		c.Next()
	}
}

// OptionalAuth attaches a principal when a valid token is presented but
// never short-circuits; anonymous requests proceed as anonymous.
func OptionalAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token != "" {
			c.Set(authTokenKey, token)
			if user, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(authUserKey, user)
			}
		}
		c.Next()
	}
}

// RequireRole gates a route on the principal's role being in the allowed
// set. Must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		user := GetAuthUser(c)
		if user == nil {
			abortUnauthorized(c, "Access denied. Please log in.")
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, model.ErrorResponse{
				Success: false,
				Error:   "Access denied. Insufficient permissions.",
			})
			return
		}
		c.Next()
	}
}

// RequestID tags every request with a UUID, honoring one supplied by the
// caller, and echoes it back in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// RateLimit enforces a per-IP token bucket: max requests per window.
// Stale buckets are evicted so the map does not grow with one-off IPs.
func RateLimit(maxRequests, window string) gin.HandlerFunc {
	limit, err := strconv.Atoi(maxRequests)
	if err != nil || limit <= 0 {
		limit = 100
	}
	dur, err := time.ParseDuration(window)
	if err != nil || dur <= 0 {
		dur = 15 * time.Minute
	}

	type bucket struct {
		lim *rate.Limiter
		ts  time.Time
	}
	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
	)
	const ttl = 30 * time.Minute

	return func(c *gin.Context) {
		now := time.Now()

		mu.Lock()
		b, ok := buckets[c.ClientIP()]
		if !ok {
			b = &bucket{lim: rate.NewLimiter(rate.Every(dur/time.Duration(limit)), limit)}
			buckets[c.ClientIP()] = b
		}
		b.ts = now
		for ip, old := range buckets {
			if now.Sub(old.ts) > ttl {
				delete(buckets, ip)
			}
		}
		mu.Unlock()

		if !b.lim.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{
				Success: false,
				Error:   "Too many requests, please try again later.",
			})
			return
		}
		c.Next()
	}
}

// CORSMiddleware mirrors allowed origins back and answers preflights.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
