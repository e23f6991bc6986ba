package internal

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode"
)

// Version is the application version, overridden at build time.
var Version = "0.3.0"

// MessageID derives a stable id for a sentence so that the same sentence
// maps to the same cache and history entry.
// Format: md5(normalized sentence)[:12]
func MessageID(sentence string) string {
	normalized := strings.Join(strings.Fields(sentence), " ")
	hash := md5.Sum([]byte(normalized))
	return hex.EncodeToString(hash[:])[:12]
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isAlphaNumeric checks if a rune is a letter or digit in any script
func isAlphaNumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
