package translation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIRequester requests translations from the OpenAI chat API or an
// OpenAI-compatible endpoint.
type OpenAIRequester struct {
	apiKey  string
	model   string
	timeout time.Duration
	client  *openai.Client
}

// NewOpenAIRequester creates a new OpenAI requester. An empty model selects
// gpt-4o-mini and an empty baseURL the public OpenAI endpoint.
func NewOpenAIRequester(apiKey, model, baseURL string, timeout time.Duration) *OpenAIRequester {
	if model == "" {
		model = openai.GPT4oMini
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIRequester{
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		client:  openai.NewClientWithConfig(cfg),
	}
}

// Name returns the provider name
func (r *OpenAIRequester) Name() string {
	return "openai"
}

// Request sends prompt as a chat completion
func (r *OpenAIRequester) Request(ctx context.Context, prompt Prompt) (string, error) {
	if r.apiKey == "" {
		return "", fmt.Errorf("OpenAI %w", ErrNoAPIKey)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompt.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt.User,
			},
		},
		MaxTokens:   500,
		Temperature: 0.3,
	}

	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
