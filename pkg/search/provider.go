package search

import (
	"context"
	"errors"
	"time"
)

// MaxResults is the ceiling on snippets requested per search.
const MaxResults = 10

var ErrSearchUnavailable = errors.New("search unavailable")

// Filters are forwarded to the provider as-is.
type Filters struct {
	Type               string
	UseAutoprompt      bool
	NumResults         int
	Text               bool
	StartPublishedDate string // YYYY-MM-DD, empty for no recency floor
}

func DefaultFilters() Filters {
	return Filters{
		Type:          "auto",
		UseAutoprompt: true,
		NumResults:    MaxResults,
		Text:          true,
	}
}

// WithRecency restricts results to documents published in the last six months.
func (f Filters) WithRecency(now time.Time) Filters {
	f.StartPublishedDate = RecencyFloor(now)
	return f
}

// RecencyFloor returns "now minus six months" as an ISO calendar date.
func RecencyFloor(now time.Time) string {
	return now.AddDate(0, -6, 0).Format(time.DateOnly)
}

type Snippet struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	PublishedDate string  `json:"publishedDate,omitempty"`
	Score         float64 `json:"score,omitempty"`
	Text          string  `json:"text"`
}

// GroundingResult is the ranked evidence for one pipeline run.
type GroundingResult struct {
	Snippets []Snippet
}

// Texts returns the snippet bodies in rank order.
func (g GroundingResult) Texts() []string {
	out := make([]string, 0, len(g.Snippets))
	for _, s := range g.Snippets {
		out = append(out, s.Text)
	}
	return out
}

// Provider is a web search backend returning ranked snippets.
type Provider interface {
	Search(ctx context.Context, query string, filters Filters) ([]Snippet, error)
}
