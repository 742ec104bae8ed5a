package llm

import (
	"fmt"
	"os"
)

// NewClientFromEnv creates a Client based on environment variables.
// CROSSPREP_LLM_PROVIDER selects the provider (default openai); provider
// credentials use the conventional per-vendor variables.
func NewClientFromEnv() (Client, error) {
	provider := os.Getenv("CROSSPREP_LLM_PROVIDER")
	if provider == "" {
		provider = "openai"
	}

	switch provider {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}

		modelName := os.Getenv("OPENAI_MODEL")
		if modelName == "" {
			modelName = "gpt-4o-mini"
		}

		// For OpenAI-compatible gateways
		baseURL := os.Getenv("OPENAI_BASE_URL")

		return NewOpenAIClient(apiKey, modelName, baseURL), nil

	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}

		modelName := os.Getenv("ANTHROPIC_MODEL")
		if modelName == "" {
			modelName = "claude-3-5-haiku-20241022"
		}

		return NewAnthropicClient(apiKey, modelName), nil

	default:
		return nil, fmt.Errorf("unknown CROSSPREP_LLM_PROVIDER: %s (supported: openai, anthropic)", provider)
	}
}
