// Package language holds the languages a sentence can be translated into,
// with the locale code sent to the translation service and the flag used
// as the row marker in aligned output.
package language

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLanguage is returned by Lookup for unsupported languages.
var ErrUnknownLanguage = errors.New("unknown language")

// Language describes one supported translation target.
type Language struct {
	Name string // Display name, e.g. "France"
	Code string // Locale code, e.g. "fr"
	Flag string // Row marker, e.g. "🇫🇷"
}

// String returns the display name with its code.
func (l Language) String() string {
	return fmt.Sprintf("%s (%s)", l.Name, l.Code)
}

// Registry order is the order shown to users.
var registry = []Language{
	{Name: "France", Code: "fr", Flag: "🇫🇷"},
	{Name: "Canadian", Code: "en-CA", Flag: "🇨🇦"},
	{Name: "English", Code: "en", Flag: "🇬🇧"},
	{Name: "Arabic", Code: "ar", Flag: "🇸🇦"},
}

// Default is the language used when none is selected.
var Default = registry[2]

// All returns a copy of the supported languages.
func All() []Language {
	result := make([]Language, len(registry))
	copy(result, registry)
	return result
}

// Names returns the display names of the supported languages.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, l := range registry {
		names = append(names, l.Name)
	}
	return names
}

// Lookup finds a language by display name or locale code, ignoring case.
// Locale variants fall back to their base code, so "fr-BE" resolves to "fr".
func Lookup(nameOrCode string) (Language, error) {
	key := strings.TrimSpace(nameOrCode)
	if key == "" {
		return Language{}, fmt.Errorf("%w: empty name", ErrUnknownLanguage)
	}

	for _, l := range registry {
		if strings.EqualFold(l.Name, key) || strings.EqualFold(l.Code, key) {
			return l, nil
		}
	}

	normalized := strings.ReplaceAll(key, "_", "-")
	if base, _, ok := strings.Cut(normalized, "-"); ok {
		for _, l := range registry {
			if strings.EqualFold(l.Code, base) {
				return l, nil
			}
		}
	}

	return Language{}, fmt.Errorf("%w: %s", ErrUnknownLanguage, nameOrCode)
}
