package handler

import (
	"errors"
	"net/http"

	"augustlab-backend/internal/domains/profile"
	"augustlab-backend/internal/shared/apierror"
	"augustlab-backend/pkg/database"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	service profile.Service
}

func NewProfileHandler(svc profile.Service) *ProfileHandler {
	return &ProfileHandler{service: svc}
}

// Get - GET /api/profile (404 until the first write)
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context())
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			apierror.Write(c, apierror.NotFound("profile not found"))
			return
		}
		apierror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update - PUT /api/profile (admin; upserts the singleton row)
func (h *ProfileHandler) Update(c *gin.Context) {
	var req profile.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.Write(c, apierror.BadRequest("invalid request body"))
		return
	}

	p, err := h.service.Update(c.Request.Context(), &req)
	if err != nil {
		if database.IsUniqueViolation(err) {
			apierror.Write(c, apierror.Business("email is already in use"))
			return
		}
		apierror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
