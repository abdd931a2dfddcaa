// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicBackend generates sections through the Anthropic Messages API.
// Per prd001-generation R6.1.
type AnthropicBackend struct {
	client anthropic.Client
	model  string
}

// NewAnthropicBackend returns an AnthropicBackend authenticated with apiKey.
func NewAnthropicBackend(apiKey, model string) *AnthropicBackend {
	return &AnthropicBackend{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Name identifies the backend in status output.
func (a *AnthropicBackend) Name() string { return "anthropic" }

// Generate performs one blocking message call with the fixed decoding
// settings and returns the concatenated text blocks (R6.1, R6.2).
func (a *AnthropicBackend) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   int64(maxOutputTokens),
		Temperature: anthropic.Float(samplingTemperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling Anthropic API: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no text content in Anthropic API response")
	}
	return b.String(), nil
}
