package hashtag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "single tag",
			text:     "Shipping a new post about #golang",
			expected: []string{"#golang"},
		},
		{
			name:     "multiple tags keep first-occurrence order",
			text:     "#travel diary: #food then #travel again, finally #photography",
			expected: []string{"#travel", "#food", "#photography"},
		},
		{
			name:     "case-insensitive dedupe lowercases",
			text:     "Loving #Rust and #RUST today",
			expected: []string{"#rust"},
		},
		{
			name:     "digits and underscores are part of the tag",
			text:     "see #web3 and #snake_case",
			expected: []string{"#web3", "#snake_case"},
		},
		{
			name:     "punctuation terminates the tag",
			text:     "done with #exams! on to #break.",
			expected: []string{"#exams", "#break"},
		},
		{
			name:     "bare hash is not a tag",
			text:     "just a # sign and a trailing #",
			expected: []string{},
		},
		{
			name:     "no tags",
			text:     "nothing to see here",
			expected: []string{},
		},
		{
			name:     "empty text",
			text:     "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractTags(tt.text))
		})
	}
}

func TestExtractTagsNeverNil(t *testing.T) {
	tags := ExtractTags("no hashtags at all")
	assert.NotNil(t, tags)
	assert.Empty(t, tags)
}
