package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"citystyle-be/pkg/retry"
	"citystyle-be/pkg/search"
)

const DefaultBaseURL = "https://api.exa.ai"

// ExaProvider calls the Exa search-and-contents endpoint.
type ExaProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

var _ search.Provider = &ExaProvider{}

func NewExaProvider(baseURL, apiKey string) *ExaProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &ExaProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type exaContents struct {
	Text bool `json:"text"`
}

type exaSearchRequest struct {
	Query              string       `json:"query"`
	Type               string       `json:"type,omitempty"`
	UseAutoprompt      bool         `json:"useAutoprompt"`
	NumResults         int          `json:"numResults"`
	StartPublishedDate string       `json:"startPublishedDate,omitempty"`
	Contents           *exaContents `json:"contents,omitempty"`
}

type exaResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	PublishedDate string  `json:"publishedDate"`
	Score         float64 `json:"score"`
	Text          string  `json:"text"`
}

type exaSearchResponse struct {
	Results []exaResult `json:"results"`
}

func (p *ExaProvider) Search(ctx context.Context, query string, filters search.Filters) ([]search.Snippet, error) {
	reqPayload := exaSearchRequest{
		Query:              query,
		Type:               filters.Type,
		UseAutoprompt:      filters.UseAutoprompt,
		NumResults:         filters.NumResults,
		StartPublishedDate: filters.StartPublishedDate,
	}
	if filters.Text {
		reqPayload.Contents = &exaContents{Text: true}
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/search", bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exa request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("exa error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
		return nil, retry.FromStatus(resp.StatusCode, resp.Header.Get("Retry-After"), statusErr)
	}

	var exaResp exaSearchResponse
	if err := json.Unmarshal(bodyBytes, &exaResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	snippets := make([]search.Snippet, 0, len(exaResp.Results))
	for _, r := range exaResp.Results {
		snippets = append(snippets, search.Snippet{
			Title:         r.Title,
			URL:           r.URL,
			PublishedDate: r.PublishedDate,
			Score:         r.Score,
			Text:          r.Text,
		})
	}
	return snippets, nil
}
