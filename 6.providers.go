package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

var (
	ErrEmptyChoices = errors.New("response has no choices")
	ErrEmptyReply   = errors.New("response content is empty")
)

// Provider is one remote text-generation tier.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req ReplyRequest) (string, error)
}

// ReplyRequest is built per call and discarded once the reply is resolved.
type ReplyRequest struct {
	Prompt  string
	Persona string
}

// ChatCompletionProvider talks to any OpenAI-compatible chat completions API.
// OpenAI itself and OpenRouter both go through it.
type ChatCompletionProvider struct {
	name   string
	model  string
	client *openai.Client
}

func NewOpenAIProvider(apiKey, model string, timeout time.Duration) *ChatCompletionProvider {
	config := openai.DefaultConfig(apiKey)
	config.HTTPClient = &http.Client{Timeout: timeout}
	return &ChatCompletionProvider{
		name:   "openai",
		model:  model,
		client: openai.NewClientWithConfig(config),
	}
}

// NewOpenRouterProvider sends the key as a bearer token even when it is
// empty; the resulting 401 counts as an ordinary tier failure.
func NewOpenRouterProvider(apiKey, model, baseURL string, timeout time.Duration) *ChatCompletionProvider {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL
	config.HTTPClient = &http.Client{Timeout: timeout}
	return &ChatCompletionProvider{
		name:   "openrouter",
		model:  model,
		client: openai.NewClientWithConfig(config),
	}
}

func (p *ChatCompletionProvider) Name() string { return p.name }

func (p *ChatCompletionProvider) Complete(ctx context.Context, req ReplyRequest) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.Persona},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyChoices
	}
	return resp.Choices[0].Message.Content, nil
}

// BuildProviders returns the configured tiers in the order they are tried.
func BuildProviders(cfg *Config) []Provider {
	var providers []Provider
	if cfg.OpenAIKey != "" {
		providers = append(providers, NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel, cfg.ProviderTimeout))
	}
	providers = append(providers, NewOpenRouterProvider(cfg.OpenRouterKey, cfg.OpenRouterModel, cfg.OpenRouterBaseURL, cfg.ProviderTimeout))
	return providers
}
