package translation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiRequester requests translations from the Gemini API.
type GeminiRequester struct {
	apiKey  string
	model   string
	timeout time.Duration
	client  *genai.Client
}

// NewGeminiRequester creates a new Gemini requester. Without an API key no
// client is created and Request fails with ErrNoAPIKey.
func NewGeminiRequester(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiRequester, error) {
	if model == "" {
		model = defaultGeminiModel
	}
	r := &GeminiRequester{apiKey: apiKey, model: model, timeout: timeout}
	if apiKey == "" {
		return r, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	r.client = client
	return r, nil
}

// Name returns the provider name
func (r *GeminiRequester) Name() string {
	return "gemini"
}

// Request sends prompt to GenerateContent
func (r *GeminiRequester) Request(ctx context.Context, prompt Prompt) (string, error) {
	if r.client == nil {
		return "", fmt.Errorf("Gemini %w", ErrNoAPIKey)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.3),
		MaxOutputTokens:   500,
	}

	resp, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(prompt.User), config)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
