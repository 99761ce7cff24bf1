package handler

import (
	"errors"
	"net/http"
	"strconv"

	"augustlab-backend/internal/domains/portfolio"
	"augustlab-backend/internal/shared/apierror"
	"augustlab-backend/pkg/database"

	"github.com/gin-gonic/gin"
)

type PortfolioHandler struct {
	service portfolio.Service
}

func NewPortfolioHandler(svc portfolio.Service) *PortfolioHandler {
	return &PortfolioHandler{service: svc}
}

// List - GET /api/portfolio
func (h *PortfolioHandler) List(c *gin.Context) {
	var q portfolio.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apierror.Write(c, apierror.Validation("invalid query parameters", ""))
		return
	}

	items, err := h.service.List(c.Request.Context(), &q)
	if err != nil {
		apierror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetByID - GET /api/portfolio/:id
func (h *PortfolioHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writePortfolioError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create - POST /api/portfolio (admin)
func (h *PortfolioHandler) Create(c *gin.Context) {
	var req portfolio.CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.Write(c, apierror.BadRequest("invalid request body"))
		return
	}

	item, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		writePortfolioError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update - PUT /api/portfolio/:id (admin)
func (h *PortfolioHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req portfolio.UpdatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.Write(c, apierror.BadRequest("invalid request body"))
		return
	}

	item, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		writePortfolioError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete - DELETE /api/portfolio/:id (admin)
func (h *PortfolioHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writePortfolioError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "portfolio item deleted"})
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		apierror.Write(c, apierror.Validation("id must be a positive integer", "id"))
		return 0, false
	}
	return id, true
}

func writePortfolioError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, portfolio.ErrNotFound):
		apierror.Write(c, apierror.NotFound("portfolio item not found"))
	case database.IsConstraintViolation(err):
		apierror.Write(c, apierror.Business("portfolio item conflicts with existing data"))
	default:
		apierror.Write(c, err)
	}
}
