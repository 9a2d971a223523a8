package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@sub.domain.org",
		"  padded@example.com  ",
	}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), "expected %q to be valid", email)
	}

	invalid := []string{
		"",
		"plainstring",
		"missing@tld",
		"@example.com",
		"two@@example.com",
		"spaces in@example.com",
	}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), "expected %q to be invalid", email)
	}
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("valid_user_42"))
	assert.Error(t, ValidateUsername("ab"), "too short")
	assert.Error(t, ValidateUsername(strings.Repeat("a", 31)), "too long")
	assert.Error(t, ValidateUsername("MixedCase"))
	assert.Error(t, ValidateUsername("has space"))
	assert.Error(t, ValidateUsername("dash-ed"))
}

func TestValidatePostText(t *testing.T) {
	assert.NoError(t, ValidatePostText("hello world"))
	assert.NoError(t, ValidatePostText(strings.Repeat("a", 5000)))
	assert.Error(t, ValidatePostText(""))
	assert.Error(t, ValidatePostText("   \n\t  "))
	assert.Error(t, ValidatePostText(strings.Repeat("a", 5001)))
}

func TestParsePagination(t *testing.T) {
	limit, offset := ParsePagination("", "", 20, 100)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	limit, offset = ParsePagination("50", "10", 20, 100)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 10, offset)

	limit, _ = ParsePagination("500", "0", 20, 100)
	assert.Equal(t, 100, limit, "limit is clamped to max")

	limit, offset = ParsePagination("-5", "-3", 20, 100)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	limit, offset = ParsePagination("garbage", "junk", 20, 100)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)
}
