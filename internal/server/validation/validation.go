// Package validation holds the pure payload policy applied before any
// backing-store call, plus the MIME-based kind classifier.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/chanvault/chanvault/internal/common"
	"github.com/chanvault/chanvault/internal/server/models"
)

// Channel message limits. Image and generic file ceilings are two named
// limits with one value on purpose: the backing platform caps attachments
// uniformly, but the policy names them separately.
const (
	MaxTextLength = 2000
	MaxFileSize   = 25 * 1024 * 1024
	MaxImageSize  = 25 * 1024 * 1024
)

// ValidateText checks the inline-text policy: non-empty, at most
// MaxTextLength characters. Returns a common.ErrValidation-wrapped error.
func ValidateText(text string) error {
	if text == "" {
		return fmt.Errorf("%w: text content is required", common.ErrValidation)
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return fmt.Errorf("%w: text length exceeds limit of %d characters", common.ErrValidation, MaxTextLength)
	}
	return nil
}

// ValidateFile checks the attachment policy: a filename must be present and
// the payload must be non-empty and within the size ceiling.
func ValidateFile(filename string, size int64) error {
	if filename == "" {
		return fmt.Errorf("%w: file is required", common.ErrValidation)
	}
	if size <= 0 {
		return fmt.Errorf("%w: file is empty", common.ErrValidation)
	}
	if size > MaxFileSize {
		return fmt.Errorf("%w: file size exceeds limit of %d bytes", common.ErrValidation, MaxFileSize)
	}
	return nil
}

// ClassifyKind maps a declared MIME type to a content kind. Anything that is
// not an image/* type, including an empty declaration, falls back to
// models.KindFile.
func ClassifyKind(mimeType string) models.Kind {
	if strings.HasPrefix(mimeType, "image/") {
		return models.KindImage
	}
	return models.KindFile
}
