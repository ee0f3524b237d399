package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vidtube/vidtube_backend/internal/dto"
)

// saveTempFile writes an uploaded part to the local staging directory under a
// collision-free name and returns its path. The caller hands the path to the
// service layer, which removes the file once the remote upload settles.
func saveTempFile(c *gin.Context, file *multipart.FileHeader, tempDir string) (string, error) {
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	dst := filepath.Join(tempDir, uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("failed to stage uploaded file: %w", err)
	}
	return dst, nil
}

// respondError writes the failure envelope for a service error, mapping the
// domain error onto an HTTP status.
func respondError(c *gin.Context, err error, message string) {
	status := dto.StatusFromError(err)
	if message == "" {
		message = http.StatusText(status)
	}
	c.JSON(status, dto.NewErrorResponse(status, message))
}
