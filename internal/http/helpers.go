package http

import "strings"

// sanitizeInput strips control characters from free-text fields before
// they reach storage. Tab, LF and CR survive.
func sanitizeInput(input string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, input)
	return strings.TrimSpace(cleaned)
}
