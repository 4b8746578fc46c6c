package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNotConfigured is returned by generators that have no backing model.
var ErrNotConfigured = errors.New("llm: generator not configured")

// callTimeout bounds a single completion call. It is deliberately shorter
// than the per-vendor pipeline deadline so a slow model surfaces as a
// fallback summary, not a vendor timeout.
const callTimeout = 8 * time.Second

// OpenAIGenerator generates text through the OpenAI chat completion API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewGenerator selects the generator at construction time: an OpenAI
// client when an API key is configured, the Disabled null implementation
// otherwise. Callers never branch on configuration themselves.
func NewGenerator(apiKey, model string) Generator {
	if apiKey == "" {
		return Disabled{}
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	log.Printf("[llm] openai generator enabled model=%s", model)
	return &OpenAIGenerator{client: openai.NewClient(apiKey), model: model}
}

func (g *OpenAIGenerator) Available() bool { return g != nil && g.client != nil }

// Generate runs one chat completion with a hard call timeout.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if !g.Available() {
		return "", ErrNotConfigured
	}

	cctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(cctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
