package translation

import "sync"

// TranslationCache stores translations in memory, keyed by message and
// target language.
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[string]Translation
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[string]Translation),
	}
}

func cacheKey(messageID, languageCode string) string {
	return languageCode + ":" + messageID
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(t Translation) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.translations[cacheKey(t.MessageID, t.Language.Code)] = t
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(messageID, languageCode string) (Translation, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	t, ok := tc.translations[cacheKey(messageID, languageCode)]
	return t, ok
}

// Len returns the number of cached translations.
func (tc *TranslationCache) Len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.translations)
}

// GetAll returns all cached translations
func (tc *TranslationCache) GetAll() map[string]Translation {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	// Return a copy to prevent external modification
	result := make(map[string]Translation, len(tc.translations))
	for k, v := range tc.translations {
		result[k] = v
	}
	return result
}
