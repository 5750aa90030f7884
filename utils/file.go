package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var ErrInvalidImageType = errors.New("invalid file type. Only jpg, jpeg, png, gif, webp allowed")

// ValidateImage checks the extension whitelist and the size limit.
func ValidateImage(fileHeader *multipart.FileHeader, maxSize int64) error {
	if fileHeader == nil {
		return errors.New("file is required")
	}
	if maxSize > 0 && fileHeader.Size > maxSize {
		return fmt.Errorf("file too large (max %dMB)", maxSize/(1024*1024))
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExtensions[ext] {
		return ErrInvalidImageType
	}
	return nil
}

// SanitizeFilename strips the extension and replaces spaces so the name can
// be used in a public id.
func SanitizeFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.ReplaceAll(strings.TrimSpace(base), " ", "_")
	if base == "" || base == "." {
		return "image"
	}
	return base
}
