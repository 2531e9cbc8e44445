package middleware

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ValidateMessageText validates an inbound chat message.
func ValidateMessageText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("message cannot be empty")
	}
	if len(text) > 4000 {
		return errors.New("message exceeds maximum length")
	}
	if !utf8.ValidString(text) {
		return errors.New("message must be valid UTF-8")
	}
	return nil
}

// ValidateSummary validates a conversation closing summary.
func ValidateSummary(summary string) error {
	if len(summary) > 1000 {
		return errors.New("summary exceeds maximum length")
	}
	if !utf8.ValidString(summary) {
		return errors.New("summary must be valid UTF-8")
	}
	return nil
}

// ParseID parses an opaque numeric identifier from a URL parameter.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid identifier")
	}
	return id, nil
}

// ValidateTenantID validates a tenant identity.
func ValidateTenantID(id string) error {
	if len(id) == 0 {
		return errors.New("tenant ID cannot be empty")
	}
	if len(id) > 64 {
		return errors.New("tenant ID exceeds maximum length")
	}
	return nil
}
