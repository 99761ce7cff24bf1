package handler

import (
	"errors"
	"net/http"
	"strconv"

	"augustlab-backend/internal/domains/blog"
	"augustlab-backend/internal/shared/apierror"

	"github.com/gin-gonic/gin"
)

type BlogHandler struct {
	service blog.Service
}

func NewBlogHandler(svc blog.Service) *BlogHandler {
	return &BlogHandler{service: svc}
}

// List - GET /api/blog (published posts only)
func (h *BlogHandler) List(c *gin.Context) {
	h.list(c, false)
}

// ListAdmin - GET /api/blog/admin (drafts included; behind auth)
func (h *BlogHandler) ListAdmin(c *gin.Context) {
	h.list(c, true)
}

func (h *BlogHandler) list(c *gin.Context, includeDrafts bool) {
	var q blog.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apierror.Write(c, apierror.Validation("invalid query parameters", ""))
		return
	}
	q.IncludeDrafts = includeDrafts

	posts, err := h.service.List(c.Request.Context(), &q)
	if err != nil {
		apierror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetByID - GET /api/blog/:id (public; drafts read as 404)
func (h *BlogHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	post, err := h.service.GetPublished(c.Request.Context(), id)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// GetAdmin - GET /api/blog/admin/:id (drafts visible; behind auth)
func (h *BlogHandler) GetAdmin(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	post, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Create - POST /api/blog (admin)
func (h *BlogHandler) Create(c *gin.Context) {
	var req blog.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.Write(c, apierror.BadRequest("invalid request body"))
		return
	}

	post, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// Update - PUT /api/blog/:id (admin)
func (h *BlogHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req blog.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.Write(c, apierror.BadRequest("invalid request body"))
		return
	}

	post, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete - DELETE /api/blog/:id (admin)
func (h *BlogHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "blog post deleted"})
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		apierror.Write(c, apierror.Validation("id must be a positive integer", "id"))
		return 0, false
	}
	return id, true
}

func writeBlogError(c *gin.Context, err error) {
	if errors.Is(err, blog.ErrNotFound) {
		apierror.Write(c, apierror.NotFound("blog post not found"))
		return
	}
	apierror.Write(c, err)
}
