package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/staffdesk/employee-directory/src/services"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a username/password login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest carries a Google Sign-In ID token
type GoogleLoginRequest struct {
	Token string `json:"token"`
}

func respondToken(c *gin.Context, issued *services.IssuedToken) {
	c.JSON(http.StatusOK, gin.H{
		"token":      issued.Token,
		"expires_at": issued.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// HandleLogin handles POST /api/login
func (h *AuthHandler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, "username and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	issued, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondToken(c, issued)
}

// HandleGoogleLogin handles POST /api/auth/google
func (h *AuthHandler) HandleGoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, "Invalid request body")
		return
	}

	token := strings.TrimSpace(req.Token)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_token",
			"message": "token is required",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	issued, err := h.authService.LoginWithIdentityToken(ctx, token)
	if err != nil {
		respondError(c, err)
		return
	}

	respondToken(c, issued)
}
