package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"citystyle-be/pkg/llm"
	"citystyle-be/pkg/retry"

	genai "google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models the provider needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider is a thin llm.LLMProvider over the official genai client.
type GeminiProvider struct {
	models contentGenerator
	model  string
}

var _ llm.LLMProvider = &GeminiProvider{}

// NewClient builds a genai client for the Gemini API. The same client is
// shared by the text and image providers.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init genai client: %w", err)
	}
	return cli, nil
}

func NewGeminiProvider(cli *genai.Client, model string) *GeminiProvider {
	return &GeminiProvider{models: cli.Models, model: model}
}

func (g *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(opts...)
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(options.Temperature)),
	}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}

	var system []string
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case llm.RoleSystem:
			system = append(system, msg.Content)
		case llm.RoleAssistant, genai.RoleModel:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", ClassifyError(err)
	}
	return firstCandidateText(resp)
}

func firstCandidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", llm.ErrEmptyResponse
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", llm.ErrEmptyResponse
	}
	return sb.String(), nil
}

// ClassifyError marks client-side API errors as permanent. Rate limiting stays retryable.
func ClassifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retry.FromStatus(apiErr.Code, "", fmt.Errorf("gemini: %w", err))
	}
	if apiErrPtr := new(genai.APIError); errors.As(err, &apiErrPtr) {
		return retry.FromStatus(apiErrPtr.Code, "", fmt.Errorf("gemini: %w", err))
	}
	return fmt.Errorf("gemini: %w", err)
}
