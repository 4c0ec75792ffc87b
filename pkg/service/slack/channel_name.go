package slack

import (
	"strings"
	"unicode"
)

const maxChannelNameLength = 80

// NormalizeChannelName converts user input such as "#Risk Report" into the
// form Slack stores channel names in: lowercase, hyphens for spaces, no
// punctuation, at most 80 bytes.
func NormalizeChannelName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "#")
	name = strings.ReplaceAll(name, " ", "-")

	var result strings.Builder
	result.Grow(len(name))

	for _, r := range name {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_':
			result.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			result.WriteRune(unicode.ToLower(r))
		case r > 127 && !isProhibitedSymbol(r):
			result.WriteRune(r)
		}
	}

	normalized := result.String()
	if len(normalized) > maxChannelNameLength {
		normalized = truncateToMaxBytes(normalized, maxChannelNameLength)
	}
	return strings.TrimRight(normalized, "-")
}

// isProhibitedSymbol checks if a non-ASCII character is prohibited in Slack channel names
func isProhibitedSymbol(r rune) bool {
	switch r {
	case '。', '、', '!', '?', '/', '\\', '.', ',', '#', '@', '(', ')', '[', ']', ':', ';':
		return true
	}
	return false
}

// truncateToMaxBytes cuts s to at most n bytes without splitting a UTF-8 sequence
func truncateToMaxBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
