package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labcrm/middleware"
	sessionSvc "labcrm/services/session"
)

// AuthHandler exposes the OTP login flow and session lifecycle.
type AuthHandler struct {
	Sessions sessionSvc.Service
}

// NewAuthHandler builds the auth handler.
func NewAuthHandler(sessions sessionSvc.Service) *AuthHandler {
	return &AuthHandler{Sessions: sessions}
}

// SendOTPHandler asks the backend to text a login code.
func (h *AuthHandler) SendOTPHandler(c *gin.Context) {
	var input struct {
		Mobile string `json:"mobile" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := h.Sessions.SendOTP(c.Request.Context(), input.Mobile); err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent"})
}

// VerifyOTPHandler exchanges mobile+code for a console session.
func (h *AuthHandler) VerifyOTPHandler(c *gin.Context) {
	var input struct {
		Mobile string `json:"mobile" binding:"required"`
		OTP    string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	sess, err := h.Sessions.VerifyOTP(c.Request.Context(), input.Mobile, input.OTP)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionID": sess.ID,
		"user":      sess.User,
	})
}

// MeHandler returns the logged-in staff user.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	sess := sessionFrom(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": sess.User})
}

// LogoutHandler wipes the session.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	id := c.GetString(middleware.ContextSessionIDKey)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}
	if err := h.Sessions.Invalidate(c.Request.Context(), id); err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
