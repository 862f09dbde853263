package validation

import (
	"fmt"
	"strings"

	"marketplace/internal/models"
)

// ErrMissingFile is returned when a multipart upload has no "file" field.
var ErrMissingFile = newError(MissingFile, "No file provided", "Please provide a file to upload")

var sizeRule = fmt.Sprintf("lte=%d", models.MaxImageSize)

// ValidateUpload checks the type, size and name of an uploaded file, in that order.
func ValidateUpload(u models.ImageUpload) error {
	if !strings.HasPrefix(u.ContentType, "image/") {
		return newError(NotAnImage, "Invalid file type", "Only image files are allowed")
	}
	if validate.Var(u.Size, sizeRule) != nil {
		return newError(FileTooLarge, "File too large", "File size must be less than 10MB")
	}
	if strings.TrimSpace(u.Filename) == "" {
		return newError(InvalidFileName, "Invalid file name", "File must have a valid name")
	}
	return nil
}
