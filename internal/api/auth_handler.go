package api

import (
	"net/http"

	"sweetiegarden/internal/service"
	"sweetiegarden/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// register handles account creation
func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, "Registration successful", user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// login verifies credentials, rotates the session token, and folds any
// guest cart into the account cart.
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	user, err := h.auth.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	old := currentSession(c)
	guestToken := old.Identity().GuestToken

	sess, err := h.sessions.Login(ctx, old, user)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.setSessionCookie(c, sess.Token)

	// Best effort: a failed merge should not block the login
	if guestToken != "" {
		if err := h.auth.AdoptGuestCart(ctx, guestToken, user.ID); err != nil {
			util.GetLogger().Warn("Guest cart merge failed on login",
				zap.Int64("user_id", user.ID), zap.Error(err))
		}
	}

	respondOK(c, "Login successful", user)
}

// logout drops the session
func (h *Handler) logout(c *gin.Context) {
	sess := currentSession(c)
	if err := h.sessions.Delete(c.Request.Context(), sess.Token); err != nil {
		respondServiceError(c, err)
		return
	}
	h.clearSessionCookie(c)
	respondOK(c, "Logged out", nil)
}

// currentUser reports who the session belongs to
func (h *Handler) currentUser(c *gin.Context) {
	sess := currentSession(c)
	if sess.UserID == 0 {
		respondOK(c, "Guest session", gin.H{"authenticated": false})
		return
	}
	respondOK(c, "Authenticated", gin.H{
		"authenticated": true,
		"user_id":       sess.UserID,
		"email":         sess.Email,
		"full_name":     sess.FullName,
		"role":          sess.Role,
	})
}
