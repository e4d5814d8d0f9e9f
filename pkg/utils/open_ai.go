package utils

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// CompletionClientInterface is the text-in/text-out contract the planner
// depends on. Providers are opaque beyond that.
type CompletionClientInterface interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenRouterCompletionClient talks to OpenRouter's OpenAI-compatible
// chat-completions endpoint.
type OpenRouterCompletionClient struct {
	client *openai.Client
	model  string
}

func NewOpenRouterCompletionClient(apiKey, model string) *OpenRouterCompletionClient {
	if model == "" {
		model = "google/gemini-2.0-flash-001"
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = openRouterBaseURL

	return &OpenRouterCompletionClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *OpenRouterCompletionClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("openrouter: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openrouter: no choices returned")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openrouter: empty completion")
	}
	return content, nil
}

// NewCompletionClient Factory function to create either an OpenRouter or Gemini
// client based on config
func NewCompletionClient(provider, apiKey, model string) (CompletionClientInterface, error) {
	switch strings.ToLower(provider) {
	case "openrouter":
		return NewOpenRouterCompletionClient(apiKey, model), nil
	case "gemini":
		return NewGeminiCompletionClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
