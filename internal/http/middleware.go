package httpx

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
	"go.uber.org/zap"

	"forumhub/internal/auth"
	"forumhub/internal/util"
)

// withSession resolves the session cookie, if any, and puts the user id in
// the request context. Invalid or expired sessions continue anonymously.
func (s *Server) withSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(s.Cfg.Session.CookieName)
		if err != nil || sid == "" {
			c.Next()
			return
		}
		uid, exp, err := s.Sessions.UserFromSession(c.Request.Context(), sid)
		switch {
		case err != nil:
			zap.L().Debug("session rejected", zap.Error(err))
		case !exp.After(time.Now()):
			zap.L().Debug("session expired", zap.String("user_id", uid), zap.Time("expire", exp))
		default:
			c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), uid))
		}
		c.Next()
	}
}

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := auth.UserIDFrom(c.Request.Context()); !ok {
			util.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		c.Next()
	}
}

// WithAccessLog logs METHOD PATH -> STATUS with the latency of each request.
func WithAccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		zap.L().Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func WithRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("panic recovered",
					zap.String("path", c.Request.URL.Path),
					zap.String("error", fmt.Sprint(r)),
					zap.Stack("stack"))
				util.Abort(c, http.StatusInternalServerError, "Internal server error")
			}
		}()
		c.Next()
	}
}

// WithTimeout puts a deadline on the request context. Store calls made after
// it passes fail and are answered with 504.
func WithTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// WithRateLimit rejects requests once the token bucket is empty. rate is the
// number of tokens added per second, capacity the bucket size.
func WithRateLimit(rate float64, capacity int64) gin.HandlerFunc {
	if rate <= 0 || capacity <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	bucket := ratelimit.NewBucketWithRate(rate, capacity)
	return func(c *gin.Context) {
		if bucket.TakeAvailable(1) != 1 {
			util.Abort(c, http.StatusTooManyRequests, "Too many requests")
			return
		}
		c.Next()
	}
}
