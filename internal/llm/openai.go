package llm

import (
	"context"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// OpenAIClient implements Client against OpenAI and OpenAI-compatible
// chat-completion endpoints (the wire shape is
// {messages, model, temperature, max_tokens} -> {choices:[{message:{content}}]}).
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a client. baseURL may be empty for api.openai.com
// or point at any compatible gateway.
func NewOpenAIClient(apiKey, modelName, baseURL string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		model:  modelName,
	}
}

func (c *OpenAIClient) Model() string { return c.model }

// Complete sends the messages and returns the first choice's content
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleSystem {
			role = openai.ChatMessageRoleSystem
		}
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	apiReq := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
	}
	if req.MaxTokens > 0 {
		apiReq.MaxTokens = req.MaxTokens
	}
	if req.Temperature > 0 {
		apiReq.Temperature = &req.Temperature
	}

	resp, err := c.client.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from completion endpoint")
	}

	return resp.Choices[0].Message.Content, nil
}
