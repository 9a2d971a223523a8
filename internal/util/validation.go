package util

import (
	"errors"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s looks like an email address
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// ValidateUsername checks if a username is acceptable
// Must be 3-30 chars, lowercase letters, digits, underscores
func ValidateUsername(username string) error {
	if len(username) < 3 || len(username) > 30 {
		return errors.New("username must be between 3 and 30 characters")
	}
	for _, r := range username {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '_' {
			return errors.New("username may only contain lowercase letters, digits and underscores")
		}
	}
	return nil
}

// ValidatePostText checks post body constraints
func ValidatePostText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("post text is required")
	}
	if len(text) > 5000 {
		return errors.New("post text too long (max 5000 characters)")
	}
	return nil
}
