package handler

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vidtube/internal/apperr"
)

// stageUpload writes the named multipart file into tempDir and returns its
// local path, or "" when the field is absent. Callers remove the file once
// the upload collaborator has consumed it.
func stageUpload(c *gin.Context, field, tempDir string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", apperr.Validation("invalid multipart payload")
	}

	dst := filepath.Join(tempDir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("stage uploaded file failed: %w", err)
	}
	return dst, nil
}
