package factory

import (
	"errors"
	"fmt"

	"citystyle-be/pkg/llm"
	"citystyle-be/pkg/llm/gemini"
	"citystyle-be/pkg/llm/ollama"

	genai "google.golang.org/genai"
)

// NewLLMProvider selects the text backend. The genai client is only
// consulted for the "gemini" provider.
func NewLLMProvider(providerType, modelName, baseURL string, cli *genai.Client) (llm.LLMProvider, error) {
	switch providerType {
	case "", "gemini":
		if cli == nil {
			return nil, errors.New("gemini provider requires a genai client")
		}
		return gemini.NewGeminiProvider(cli, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
