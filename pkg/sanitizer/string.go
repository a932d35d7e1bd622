package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(s))
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeOptional normalizes *s in place. A nil pointer is left alone.
func NormalizeOptional(s *string) {
	if s == nil {
		return
	}
	*s = TrimAndNormalize(*s)
}

// NormalizeIdentifier trims an opaque identifier without touching its inner
// characters.
func NormalizeIdentifier(id string) string {
	return strings.TrimSpace(id)
}
