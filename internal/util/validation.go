package util

import (
	"strings"
	"unicode/utf8"

	"github.com/zfogg/trellis/internal/errors"
)

const (
	MaxPostLength    = 2000
	MaxCommentLength = 1000
)

// ValidateContent trims content and checks it is non-empty and at most
// maxLen characters. The returned error is a VALIDATION_ERROR on field.
func ValidateContent(field, content string, maxLen int) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errors.ValidationError(field, field+" is required")
	}
	if utf8.RuneCountInString(content) > maxLen {
		return "", errors.ValidationError(field, field+" is too long")
	}
	return content, nil
}
