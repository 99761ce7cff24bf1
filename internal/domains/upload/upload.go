// Package upload stores admin-uploaded images under a configured directory
// with random names, keeping only the whitelisted extension.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotImage     = errors.New("file is not an image")
	ErrBadExtension = errors.New("file extension is not allowed")
	ErrTooLarge     = errors.New("file exceeds the size limit")
	ErrNotFound     = errors.New("image not found")
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// ImageResponse acknowledges a stored image.
type ImageResponse struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

// Service writes images to <dir>/images/ and serves deletions by filename.
type Service struct {
	dir     string
	maxSize int64
}

func NewService(dir string, maxSize int64) *Service {
	return &Service{dir: dir, maxSize: maxSize}
}

// ImagesDir returns the directory images are stored in.
func (s *Service) ImagesDir() string {
	return filepath.Join(s.dir, "images")
}

// SaveImage validates and stores one uploaded image. The stored name is a
// fresh uuid with the original extension, so uploads never collide and the
// client-supplied name never reaches the filesystem.
func (s *Service) SaveImage(fileHeader *multipart.FileHeader) (*ImageResponse, error) {
	if fileHeader.Size > s.maxSize {
		return nil, ErrTooLarge
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotImage
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, ErrBadExtension
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.ImagesDir(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename := uuid.New().String() + ext
	target := filepath.Join(s.ImagesDir(), filename)

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create image file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
	if err != nil {
		os.Remove(target)
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	if size > s.maxSize {
		os.Remove(target)
		return nil, ErrTooLarge
	}

	return &ImageResponse{
		Filename: filename,
		URL:      "/uploads/images/" + filename,
		Size:     size,
	}, nil
}

// DeleteImage removes a stored image by its generated filename.
func (s *Service) DeleteImage(filename string) error {
	// Generated names are uuid + extension; anything else is rejected
	// before touching the filesystem.
	if filename != filepath.Base(filename) || strings.ContainsAny(filename, "/\\") {
		return ErrNotFound
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return ErrNotFound
	}
	if _, err := uuid.Parse(strings.TrimSuffix(filename, ext)); err != nil {
		return ErrNotFound
	}

	target := filepath.Join(s.ImagesDir(), filename)
	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
