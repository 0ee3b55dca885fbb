package api

import (
	"net/http"
	"strconv"
	"time"

	"sweetiegarden/internal/models"
	"sweetiegarden/internal/session"
	"sweetiegarden/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ctxSession  = "session"
	ctxIdentity = "identity"
)

// sessionMiddleware resolves the caller's session from the cookie. A
// visitor without a valid session gets a fresh anonymous one, so every
// request downstream has an identity to hang a cart on.
func (h *Handler) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sess *session.Session
		if token, err := c.Cookie(h.cookieName); err == nil && token != "" {
			sess, err = h.sessions.Get(ctx, token)
			if err != nil {
				util.GetLogger().Error("Session lookup failed", zap.Error(err))
				respondError(c, http.StatusInternalServerError, "Something went wrong")
				c.Abort()
				return
			}
		}

		if sess == nil {
			created, err := h.sessions.Create(ctx)
			if err != nil {
				util.GetLogger().Error("Session create failed", zap.Error(err))
				respondError(c, http.StatusInternalServerError, "Something went wrong")
				c.Abort()
				return
			}
			sess = created
			h.setSessionCookie(c, sess.Token)
		}

		c.Set(ctxSession, sess)
		c.Set(ctxIdentity, sess.Identity())
		c.Next()
	}
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, token, int(h.cookieTTL.Seconds()), "/", "", false, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(ctxSession).(*session.Session)
}

func currentIdentity(c *gin.Context) models.Identity {
	return c.MustGet(ctxIdentity).(models.Identity)
}

// requireAuth rejects anonymous callers
func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentIdentity(c).IsUser() {
			respondError(c, http.StatusUnauthorized, "Please log in first")
			c.Abort()
			return
		}
		c.Next()
	}
}

// requireAdmin rejects everyone but admins
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentIdentity(c).IsAdmin() {
			respondError(c, http.StatusForbidden, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
