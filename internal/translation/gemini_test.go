package translation

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/interlinear/internal/language"
)

func TestNewGeminiRequester_NoAPIKey(t *testing.T) {
	r, err := NewGeminiRequester(context.Background(), "", "", 0)
	if err != nil {
		t.Fatalf("NewGeminiRequester failed: %v", err)
	}
	if r.model != defaultGeminiModel {
		t.Errorf("Expected default model %s, got %s", defaultGeminiModel, r.model)
	}
	if r.Name() != "gemini" {
		t.Errorf("Expected name 'gemini', got %s", r.Name())
	}

	_, err = r.Request(context.Background(), Prompt{User: "x"})
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("Expected ErrNoAPIKey, got %v", err)
	}
	if err.Error() != "Gemini API key not found" {
		t.Errorf("Expected 'Gemini API key not found' error, got: %v", err)
	}
}

func TestGeminiRequest_Integration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: GEMINI_API_KEY not set")
	}

	r, err := NewGeminiRequester(context.Background(), apiKey, "", 30*time.Second)
	if err != nil {
		t.Fatalf("NewGeminiRequester failed: %v", err)
	}

	arabic, _ := language.Lookup("Arabic")
	got, err := r.Request(context.Background(), BuildPrompt("Good morning", arabic, language.Default))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if !strings.Contains(got, "[") {
		t.Errorf("Reply does not look bracketed: %s", got)
	}

	t.Logf("Reply:\n%s", got)
}
