package handler

import (
	"errors"
	"net/http"
	"strconv"

	"augustlab-backend/internal/domains/product"
	"augustlab-backend/internal/infrastructure/filestore"
	"augustlab-backend/internal/shared/apierror"
	"augustlab-backend/pkg/database"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	service       product.Service
	maxBundleSize int64
}

func NewProductHandler(svc product.Service, maxBundleSize int64) *ProductHandler {
	return &ProductHandler{service: svc, maxBundleSize: maxBundleSize}
}

// List - GET /api/products (published only)
func (h *ProductHandler) List(c *gin.Context) {
	h.list(c, false)
}

// ListAdmin - GET /api/products/admin (drafts included; behind auth)
func (h *ProductHandler) ListAdmin(c *gin.Context) {
	h.list(c, true)
}

func (h *ProductHandler) list(c *gin.Context, includeDrafts bool) {
	var q product.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apierror.Write(c, apierror.Validation("invalid query parameters", ""))
		return
	}
	q.IncludeDrafts = includeDrafts

	products, err := h.service.List(c.Request.Context(), &q)
	if err != nil {
		apierror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetByID - GET /api/products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeProductError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Create - POST /api/products (admin)
func (h *ProductHandler) Create(c *gin.Context) {
	var req product.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.Write(c, apierror.BadRequest("invalid request body"))
		return
	}

	p, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		writeProductError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Update - PUT /api/products/:id (admin)
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req product.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.Write(c, apierror.BadRequest("invalid request body"))
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		writeProductError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete - DELETE /api/products/:id (admin)
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeProductError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

// Upload - POST /api/products/:id/upload (admin; multipart zip bundle)
func (h *ProductHandler) Upload(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	// The request body cap is authoritative; the store re-checks the
	// uncompressed size during validation.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBundleSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierror.Write(c, apierror.FileUpload("request must contain a zip bundle in the 'file' field"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierror.Write(c, apierror.FileUpload("failed to read uploaded bundle"))
		return
	}
	defer file.Close()

	resp, err := h.service.Upload(c.Request.Context(), id, file, fileHeader.Size)
	if err != nil {
		writeProductError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Files - GET /api/products/:id/files
func (h *ProductHandler) Files(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	listing, err := h.service.Files(c.Request.Context(), id)
	if err != nil {
		writeProductError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Verify - GET /api/products/:id/verify
func (h *ProductHandler) Verify(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := h.service.Verify(c.Request.Context(), id)
	if err != nil {
		writeProductError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LaunchConfig - GET /api/products/:id/launch
func (h *ProductHandler) LaunchConfig(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	cfg, err := h.service.LaunchConfig(c.Request.Context(), id)
	if err != nil {
		writeProductError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		apierror.Write(c, apierror.Validation("id must be a positive integer", "id"))
		return 0, false
	}
	return id, true
}

func writeProductError(c *gin.Context, err error) {
	var rejectErr *filestore.RejectError
	switch {
	case errors.Is(err, product.ErrNotFound):
		apierror.Write(c, apierror.NotFound("product not found"))
	case errors.Is(err, product.ErrUnknownType):
		apierror.Write(c, apierror.Validation(err.Error(), "product_type"))
	case errors.Is(err, filestore.ErrNotUploaded):
		apierror.Write(c, apierror.NotFound("no bundle uploaded for this product"))
	case errors.As(err, &rejectErr):
		apierror.Write(c, apierror.FileUpload(rejectErr.Reason))
	case database.IsConstraintViolation(err):
		apierror.Write(c, apierror.Business("product conflicts with existing data"))
	default:
		apierror.Write(c, err)
	}
}
