package llm

import (
	"context"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

// AnthropicClient implements Client against the Anthropic Messages API
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates an Anthropic-backed client
func NewAnthropicClient(apiKey, modelName string) *AnthropicClient {
	return &AnthropicClient{
		client: anthropic.NewClient(apiKey),
		model:  modelName,
	}
}

func (c *AnthropicClient) Model() string { return c.model }

// Complete sends the messages and returns the concatenated text blocks
func (c *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	var systemParts []anthropic.MessageSystemPart
	var msgs []anthropic.Message

	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			systemParts = append(systemParts, anthropic.MessageSystemPart{
				Type: "text",
				Text: m.Content,
			})
			continue
		}
		msgs = append(msgs, anthropic.Message{
			Role:    anthropic.RoleUser,
			Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(m.Content)},
		})
	}

	maxTokens := 4096
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	apiReq := anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		Messages:  msgs,
		MaxTokens: maxTokens,
	}
	if req.Temperature > 0 {
		temp := req.Temperature
		apiReq.Temperature = &temp
	}
	if len(systemParts) > 0 {
		apiReq.MultiSystem = systemParts
	}

	resp, err := c.client.CreateMessages(ctx, apiReq)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text += *block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("empty response from completion endpoint")
	}
	return text, nil
}
