package handler

import (
	"errors"
	"net/http"

	"augustlab-backend/internal/domains/upload"
	"augustlab-backend/internal/shared/apierror"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	service *upload.Service
	maxSize int64
}

func NewUploadHandler(svc *upload.Service, maxSize int64) *UploadHandler {
	return &UploadHandler{service: svc, maxSize: maxSize}
}

// UploadImage - POST /api/upload/image (admin; multipart)
func (h *UploadHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierror.Write(c, apierror.FileUpload("request must contain an image in the 'file' field"))
		return
	}

	resp, err := h.service.SaveImage(fileHeader)
	if err != nil {
		writeUploadError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// DeleteImage - DELETE /api/upload/image/:filename (admin)
func (h *UploadHandler) DeleteImage(c *gin.Context) {
	if err := h.service.DeleteImage(c.Param("filename")); err != nil {
		writeUploadError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}

func writeUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, upload.ErrNotImage):
		apierror.Write(c, apierror.FileUpload("uploaded file must be an image"))
	case errors.Is(err, upload.ErrBadExtension):
		apierror.Write(c, apierror.FileUpload("image extension must be one of .jpg, .jpeg, .png, .gif, .webp"))
	case errors.Is(err, upload.ErrTooLarge):
		apierror.Write(c, apierror.FileUpload("image exceeds the size limit"))
	case errors.Is(err, upload.ErrNotFound):
		apierror.Write(c, apierror.NotFound("image not found"))
	default:
		apierror.Write(c, err)
	}
}
