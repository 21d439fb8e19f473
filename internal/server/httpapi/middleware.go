package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
	"github.com/gin-gonic/gin"
)

type ctxKey string

const identityKey ctxKey = "identity"

// ContextUserKey is the gin context key holding the authenticated user.
const ContextUserKey = "user"

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// WithIdentity returns a copy of ctx carrying user.
func WithIdentity(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, identityKey, user)
}

// IdentityFromContext returns the user attached by RequireAuth.
func IdentityFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(identityKey).(*models.User)
	return u, ok && u != nil
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth rejects requests without a valid bearer token for a user that
// still exists. On success the user is attached to the request context and
// to the gin context under ContextUserKey.
func RequireAuth(a Authenticator, l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if token == "" {
			fail(c, http.StatusUnauthorized, services.MsgNotAuthorized)
			return
		}

		user, err := a.Authenticate(ctx, token)
		if err != nil {
			if errors.Is(err, common.ErrorUnauthorized) {
				l.Warn(ctx, "rejected bearer token", "path", c.FullPath(), "reason", reason(err))
				msg, _ := common.MessageOf(err)
				if msg == "" {
					msg = services.MsgNotAuthorized
				}
				fail(c, http.StatusUnauthorized, msg)
				return
			}
			l.Error(ctx, "authentication failed", "path", c.FullPath(), "error", err.Error())
			fail(c, http.StatusInternalServerError, MsgServerError)
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(ctx, user))
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

func reason(err error) string {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		return "expired"
	case errors.Is(err, common.ErrInvalidToken):
		return "invalid"
	case errors.Is(err, common.ErrorNotFound):
		return "user not found"
	default:
		return "unauthorized"
	}
}

// SecurityHeaders sets conservative response headers for a JSON API.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Cross-Origin-Opener-Policy", "same-origin")
		h.Set("Cross-Origin-Resource-Policy", "same-origin")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-DNS-Prefetch-Control", "off")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("X-Permitted-Cross-Domain-Policies", "none")
		h.Set("X-XSS-Protection", "0")
		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if u, ok := IdentityFromContext(c.Request.Context()); ok {
			args = append(args, "user_id", u.ID)
		}

		switch {
		case status >= http.StatusInternalServerError:
			l.Error(c.Request.Context(), "request", args...)
		case status >= http.StatusBadRequest:
			l.Warn(c.Request.Context(), "request", args...)
		default:
			l.Info(c.Request.Context(), "request", args...)
		}
	}
}

// Recovery turns a panic in a handler into a logged 500 envelope.
func Recovery(l logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		l.Error(c.Request.Context(), "panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		fail(c, http.StatusInternalServerError, MsgServerError)
	})
}
