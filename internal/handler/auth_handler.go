package handler

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/itemtrace/custody-backend-go/internal/config"
	"github.com/itemtrace/custody-backend-go/internal/middleware"
	"github.com/itemtrace/custody-backend-go/pkg/response"
)

// AuthHandler issues access tokens for the configured admin account.
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.cfg.AdminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.AdminPassword)) == 1
	if !userOK || !passOK {
		response.Unauthorized(c, "Invalid credentials")
		return
	}

	token, err := middleware.IssueToken(h.cfg.JWTSecret, req.Username)
	if err != nil {
		response.InternalError(c, "Failed to issue token")
		return
	}

	response.Success(c, gin.H{"token": token})
}
