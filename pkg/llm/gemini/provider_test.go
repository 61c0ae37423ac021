package gemini

import (
	"context"
	"errors"
	"testing"

	"citystyle-be/pkg/llm"
	"citystyle-be/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	genai "google.golang.org/genai"
)

type fakeModels struct {
	resp     *genai.GenerateContentResponse
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: genai.RoleModel}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

var userHi = []llm.Message{{Role: llm.RoleUser, Content: "hi"}}

func TestGeminiProvider_Chat_MapsSystemInstruction(t *testing.T) {
	fake := &fakeModels{resp: textResponse("Oversized ", "blazers.")}
	p := &GeminiProvider{models: fake, model: "gemini-2.5-flash"}

	got, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "You are a stylist."},
		{Role: llm.RoleUser, Content: "Summarize."},
	})

	require.NoError(t, err)
	assert.Equal(t, "Oversized blazers.", got)
	assert.Equal(t, "gemini-2.5-flash", fake.model)
	require.Len(t, fake.contents, 1)
	assert.Equal(t, "Summarize.", fake.contents[0].Parts[0].Text)
	assert.Equal(t, genai.RoleUser, fake.contents[0].Role)
	require.NotNil(t, fake.config.SystemInstruction)
	assert.Equal(t, "You are a stylist.", fake.config.SystemInstruction.Parts[0].Text)
}

func TestGeminiProvider_Chat_Options(t *testing.T) {
	fake := &fakeModels{resp: textResponse("ok")}
	p := &GeminiProvider{models: fake, model: "gemini-2.5-flash"}

	_, err := p.Chat(context.Background(), userHi, llm.WithTemperature(0.2), llm.WithMaxTokens(64))

	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", fake.model)
	assert.Equal(t, int32(64), fake.config.MaxOutputTokens)
	require.NotNil(t, fake.config.Temperature)
	assert.InDelta(t, 0.2, *fake.config.Temperature, 1e-6)
	assert.Nil(t, fake.config.SystemInstruction)
}

func TestGeminiProvider_Chat_EmptyCandidate(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{name: "no candidates", resp: &genai.GenerateContentResponse{}},
		{name: "nil content", resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
		{name: "blank text", resp: textResponse("  ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &GeminiProvider{models: &fakeModels{resp: tt.resp}, model: "m"}
			_, err := p.Chat(context.Background(), userHi)
			assert.ErrorIs(t, err, llm.ErrEmptyResponse)
		})
	}
}

func TestGeminiProvider_Chat_ClientErrorIsPermanent(t *testing.T) {
	fake := &fakeModels{err: genai.APIError{Code: 400, Message: "bad prompt"}}
	p := &GeminiProvider{models: fake, model: "m"}

	calls := 0
	_, err := retry.Execute(context.Background(), retry.Policy{MaxRetries: 3, InitialDelay: 1}, func(ctx context.Context) (string, error) {
		calls++
		return p.Chat(ctx, userHi)
	})

	assert.Equal(t, 1, calls)
	var apiErr genai.APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestGeminiProvider_Chat_RateLimitIsRetried(t *testing.T) {
	fake := &fakeModels{err: genai.APIError{Code: 429, Message: "slow down"}}
	p := &GeminiProvider{models: fake, model: "m"}

	calls := 0
	_, _ = retry.Execute(context.Background(), retry.Policy{MaxRetries: 2, InitialDelay: 1}, func(ctx context.Context) (string, error) {
		calls++
		return p.Chat(ctx, userHi)
	})

	assert.Equal(t, 3, calls)
}
