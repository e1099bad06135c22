package utils

import "strings"

const wordsPerMinute = 200

// ReadTime estimates reading time in whole minutes at 200 words per minute,
// rounded up. Empty content reads in zero minutes.
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
