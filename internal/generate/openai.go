// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIBackend generates sections through the OpenAI chat completions API.
// Per prd001-generation R6.1.
type OpenAIBackend struct {
	client openai.Client
	model  string
}

// NewOpenAIBackend returns an OpenAIBackend authenticated with apiKey.
func NewOpenAIBackend(apiKey, model string) *OpenAIBackend {
	return &OpenAIBackend{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Name identifies the backend in status output.
func (o *OpenAIBackend) Name() string { return "openai" }

// Generate performs one blocking chat completion with the fixed decoding
// settings and returns the first choice's text (R6.1, R6.2).
func (o *OpenAIBackend) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature:         openai.Float(samplingTemperature),
		TopP:                openai.Float(samplingTopP),
		MaxCompletionTokens: openai.Int(maxOutputTokens),
	})
	if err != nil {
		return "", fmt.Errorf("calling OpenAI API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}
	if resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no text content in OpenAI API response")
	}
	return resp.Choices[0].Message.Content, nil
}
