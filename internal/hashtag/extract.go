package hashtag

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`#\w+`)

// ExtractTags returns the hashtags found in text, lowercased with the '#'
// prefix kept, deduplicated case-insensitively, in first-occurrence order.
// Returns an empty slice when text has no hashtags.
func ExtractTags(text string) []string {
	matches := tagPattern.FindAllString(text, -1)

	tags := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		tag := strings.ToLower(m)
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
