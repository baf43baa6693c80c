package validate

import (
	"strings"
	"unicode/utf8"
)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

func RuneLenBetween(value string, min, max int) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	return n >= min && n <= max
}

func MaxRunes(value string, max int) bool {
	return utf8.RuneCountInString(value) <= max
}

func IntBetween(value, min, max int) bool {
	return value >= min && value <= max
}

// NonEmptyTrimmed drops blank entries and trims the rest, preserving order.
func NonEmptyTrimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
