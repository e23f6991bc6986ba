package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/snonux/interlinear/internal/translation"
)

// MockRequester mocks a translation provider for testing
type MockRequester struct {
	mu sync.Mutex

	// Responses maps a sentence to the raw reply returned for it
	Responses map[string]string
	// Default is returned for sentences missing from Responses
	Default string
	// Errors maps a sentence to the error returned for it
	Errors map[string]error
	// Block, when set, makes Request wait until it is closed
	Block chan struct{}
	// Started receives one value per Request call when set
	Started chan string

	Calls []string
}

// NewMockRequester creates a mock with empty response tables
func NewMockRequester() *MockRequester {
	return &MockRequester{
		Responses: make(map[string]string),
		Errors:    make(map[string]error),
	}
}

// Name returns the mock provider name
func (m *MockRequester) Name() string {
	return "mock"
}

// Request records the call and returns the configured reply
func (m *MockRequester) Request(ctx context.Context, prompt translation.Prompt) (string, error) {
	sentence := SentenceFromPrompt(prompt)

	m.mu.Lock()
	m.Calls = append(m.Calls, sentence)
	started := m.Started
	block := m.Block
	m.mu.Unlock()

	if started != nil {
		started <- sentence
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.Errors[sentence]; ok {
		return "", err
	}
	if resp, ok := m.Responses[sentence]; ok {
		return resp, nil
	}
	if m.Default != "" {
		return m.Default, nil
	}
	return "", fmt.Errorf("no mock response for %q", sentence)
}

// CallCount returns the number of Request calls so far
func (m *MockRequester) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// SentenceFromPrompt extracts the sentence from a prompt built by
// translation.BuildPrompt
func SentenceFromPrompt(prompt translation.Prompt) string {
	const marker = "Sentence: "
	if i := strings.LastIndex(prompt.User, marker); i >= 0 {
		return prompt.User[i+len(marker):]
	}
	return prompt.User
}
