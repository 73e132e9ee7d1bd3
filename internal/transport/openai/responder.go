package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const responderSystemPrompt = "You are a friendly shopping assistant. " +
	"Rewrite the given status message as a short, warm reply to the customer. " +
	"Keep every fact (product names, prices, order ids, dates) exactly as given. " +
	"Do not add products, offers or questions that are not in the message."

// Responder rephrases canned reply messages through an OpenAI-compatible
// chat completion API. It is optional; callers fall back to the raw
// message when the call fails.
type Responder struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// ResponderConfig holds the chat completion provider settings.
type ResponderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewResponder creates an OpenAI-compatible chat completion client.
func NewResponder(cfg *ResponderConfig) *Responder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Responder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Rephrase rewrites message in a conversational tone, given the user's
// original query for context. The returned text never loses the facts of
// the input message; on any provider error the caller keeps the original.
func (r *Responder) Rephrase(ctx context.Context, query, message string) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: 0.3,
		MaxTokens:   256,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: responderSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Customer asked: " + query + "\nStatus message: " + message},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty chat completion response")
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("blank chat completion response")
	}
	return out, nil
}
