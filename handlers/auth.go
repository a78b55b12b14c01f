package handlers

import (
	"errors"
	"net/http"

	"flock/middleware"
	"flock/services/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves the login, OTP and login-history endpoints.
type AuthHandler struct {
	svc auth.AuthService
}

// NewAuthHandler creates an AuthHandler backed by the given service.
func NewAuthHandler(svc auth.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// requestFingerprint extracts the current request's fingerprint.
func requestFingerprint(c *gin.Context) auth.Fingerprint {
	return auth.ExtractFingerprint(c.Request.UserAgent(), middleware.GetClientIP(c))
}

// LoginHandler handles POST /login.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password, requestFingerprint(c))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid email or password"})
			return
		}
		getLogger(c).Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GoogleLoginHandler handles POST /google-login. Unknown accounts are
// provisioned rather than rejected, so this never fails on a missing user.
func (h *AuthHandler) GoogleLoginHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.svc.GoogleLogin(c.Request.Context(), req.Email, requestFingerprint(c))
	if err != nil {
		getLogger(c).Error("Google login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SendOTPHandler handles POST /send-otp. The code travels out-of-band; it is
// never included in the response body.
func (h *AuthHandler) SendOTPHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request: " + err.Error()})
		return
	}

	if err := h.svc.SendOTP(c.Request.Context(), req.Email); err != nil {
		getLogger(c).Error("Failed to send OTP", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent to email"})
}

// VerifyOTPHandler handles POST /verify-otp.
func (h *AuthHandler) VerifyOTPHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.svc.VerifyOTP(c.Request.Context(), req.Email, req.OTP, requestFingerprint(c)); err != nil {
		if errors.Is(err, auth.ErrInvalidOTP) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid OTP"})
			return
		}
		getLogger(c).Error("OTP verification failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RecordLoginHistoryHandler handles POST /login-history: it appends an entry
// built from the current request's fingerprint, unconditionally.
func (h *AuthHandler) RecordLoginHistoryHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request: " + err.Error()})
		return
	}

	event, err := h.svc.RecordLogin(c.Request.Context(), req.Email, requestFingerprint(c))
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		getLogger(c).Error("Failed to record login history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": event})
}

// GetLoginHistoryHandler handles GET /login-history?email=...
func (h *AuthHandler) GetLoginHistoryHandler(c *gin.Context) {
	email := c.Query("email")

	history, err := h.svc.LoginHistory(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		getLogger(c).Error("Failed to fetch login history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, history)
}
