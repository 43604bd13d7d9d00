package util

import (
	"strings"
)

// ExtractHashtags extracts #topic hashtags from text content
// Returns a slice of unique tags (lowercase, with the # symbol)
func ExtractHashtags(content string) []string {
	var tags []string
	words := strings.Fields(content)
	seen := make(map[string]bool)

	for _, word := range words {
		if strings.HasPrefix(word, "#") && len(word) > 1 {
			// Clean the tag (remove trailing punctuation)
			tag := strings.TrimRight(word, ".,!?;:")
			tag = strings.ToLower(tag)

			if !seen[tag] && len(tag) >= 2 && len(tag) <= 50 {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}
