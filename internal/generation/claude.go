// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dailyexamresult/notice-engine/pkg/types"
)

// ClaudeBackend calls the Anthropic Messages API. Selected with
// ai.provider: claude.
type ClaudeBackend struct {
	client anthropic.Client
	model  string
}

// NewClaudeBackend builds a Claude backend from the AI settings.
func NewClaudeBackend(cfg types.AIConfig) *ClaudeBackend {
	return &ClaudeBackend{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.Model,
	}
}

// Generate sends the prompt as a single user message and concatenates the
// text blocks of the response.
func (c *ClaudeBackend) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 8192,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling Anthropic API: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in Anthropic response")
	}
	return sb.String(), nil
}

// Model returns the Claude model identifier.
func (c *ClaudeBackend) Model() string {
	return c.model
}
