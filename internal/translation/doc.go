// Package translation requests word-by-word translations from a remote
// text generation service (OpenAI or Gemini) and aligns the replies. It
// includes a circuit breaker around the service, an in-memory cache and
// file persistence for translated sentences.
package translation
