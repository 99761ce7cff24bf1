package handler

import (
	"errors"
	"net/http"
	"strings"

	"augustlab-backend/internal/domains/auth"
	"augustlab-backend/internal/shared/apierror"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login - POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.Write(c, apierror.BadRequest("invalid request body"))
		return
	}

	if err := req.Validate(); err != nil {
		apierror.Write(c, apierror.Validation(err.Error(), ""))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			apierror.Write(c, apierror.Authentication("invalid username or password"))
			return
		}
		apierror.Write(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Verify - GET /api/auth/verify (behind the auth middleware)
func (h *AuthHandler) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, auth.MessageResponse{Message: "token is valid"})
}

// Logout - POST /api/auth/logout (behind the auth middleware; idempotent)
func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		apierror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, auth.MessageResponse{Message: "logged out"})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
