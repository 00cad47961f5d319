package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/driveport/driveport/internal/admin"
	"github.com/driveport/driveport/internal/common/auth"
	"github.com/driveport/driveport/internal/common/config"
	"github.com/driveport/driveport/internal/common/logger"
	"github.com/driveport/driveport/internal/common/middleware"
	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

const ContextAdminID = "adminId"

// Recovery turns a handler panic into a 500 instead of killing the process.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				if log != nil {
					log.Errorf("panic recovered: %v (%s %s)", r, c.Request.Method, c.Request.URL.Path)
				}
				abortWith(c, http.StatusInternalServerError, codeInternal, "internal error")
			}
		}()
		c.Next()
	}
}

// AccessLog logs one line per request with status and latency.
func AccessLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if log != nil {
			log.Infof("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
		}
	}
}

// Tracing opens a server span per request, continuing an inbound trace
// context when the caller carries one.
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		tracer := opentracing.GlobalTracer()
		parent, _ := tracer.Extract(opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(c.Request.Header))

		name := c.FullPath()
		if name == "" {
			name = c.Request.URL.Path
		}
		span := tracer.StartSpan(name, ext.RPCServerOption(parent))
		defer span.Finish()

		ext.HTTPMethod.Set(span, c.Request.Method)
		ext.HTTPUrl.Set(span, c.Request.URL.Path)

		c.Request = c.Request.WithContext(opentracing.ContextWithSpan(c.Request.Context(), span))
		c.Next()

		ext.HTTPStatusCode.Set(span, uint16(c.Writer.Status()))
		if c.Writer.Status() >= http.StatusInternalServerError {
			ext.Error.Set(span, true)
		}
	}
}

// RateLimit rejects requests once the limiter runs dry. A nil limiter
// disables limiting.
func RateLimit(limiter middleware.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow(c.Request.Context()) {
			abortWith(c, http.StatusTooManyRequests, codeRateLimited, "too many requests")
			return
		}
		c.Next()
	}
}

// AdminAuth requires a bearer token carrying the admin role and stores the
// admin id in the request context.
func AdminAuth(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWith(c, http.StatusUnauthorized, codeUnauthorized, "Authorization header missing")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortWith(c, http.StatusUnauthorized, codeUnauthorized, "invalid Authorization header")
			return
		}

		claims, err := auth.ParseAccessToken(cfg, parts[1])
		if err != nil {
			abortWith(c, http.StatusUnauthorized, codeUnauthorized, "invalid or expired token")
			return
		}
		if !claims.HasRole(admin.RoleAdmin) {
			abortWith(c, http.StatusForbidden, codeForbidden, "admins only")
			return
		}

		c.Set(ContextAdminID, claims.Subject)
		c.Next()
	}
}
