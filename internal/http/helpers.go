package http

import (
	"strings"
	"unicode"
)

// sanitizeInput trims whitespace and strips control characters other than
// tab and newline.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\t' && r != '\n' {
			return -1
		}
		return r
	}, s)
}
