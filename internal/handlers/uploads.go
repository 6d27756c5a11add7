package handlers

import (
	"errors"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// saveUpload stores an uploaded image under the file store and returns the
// public /static path it will be served from.
func (h *Handler) saveUpload(c *gin.Context, file *multipart.FileHeader, subdir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", errors.New("Only image files allowed")
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(h.Cfg.UploadDir, "uploads", subdir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return path.Join("/static/uploads", subdir, name), nil
}

// diskPath maps a stored public /static path back onto the file store.
func (h *Handler) diskPath(publicPath string) string {
	trimmed := strings.TrimPrefix(publicPath, "/static/")
	return filepath.Join(h.Cfg.UploadDir, filepath.FromSlash(trimmed))
}
