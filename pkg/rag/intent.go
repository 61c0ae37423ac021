package rag

import (
	"fmt"
	"strings"

	"citystyle-be/pkg/rag/prompt"
)

type Intent string

const (
	IntentTLDR        Intent = "tldr"
	IntentCompare     Intent = "compare"
	IntentOutfitItems Intent = "outfit"
	IntentBuy         Intent = "buy"
)

func ParseIntent(s string) (Intent, error) {
	intent := Intent(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := intentTable[intent]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedIntent, s)
	}
	return intent, nil
}

// Query is one user request. Locale is the city the trends are about.
type Query struct {
	Intent   Intent
	FreeText string
	Locale   string
}

// Validate reports ErrInvalidRequest for a missing intent or blank free text
// and ErrUnsupportedIntent for an unknown intent.
func (q Query) Validate() error {
	if q.Intent == "" || strings.TrimSpace(q.FreeText) == "" {
		return fmt.Errorf("%w: query and type are required", ErrInvalidRequest)
	}
	if _, ok := intentTable[q.Intent]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedIntent, string(q.Intent))
	}
	return nil
}

// responseField selects which payload field carries the primary text.
type responseField int

const (
	fieldSummary responseField = iota
	fieldMessage
)

// intentSpec drives the generic runner.
type intentSpec struct {
	needsRecency   bool
	needsFiltering bool
	needsImaging   bool
	field          responseField
	prompt         prompt.Template
}

var intentTable = map[Intent]intentSpec{
	IntentTLDR: {
		needsRecency:   true,
		needsFiltering: true,
		needsImaging:   true,
		field:          fieldSummary,
		prompt:         prompt.TrendSummary,
	},
	IntentCompare: {
		field:  fieldSummary,
		prompt: prompt.HistoricalComparison,
	},
	IntentOutfitItems: {
		field:  fieldSummary,
		prompt: prompt.TrendingItems,
	},
	IntentBuy: {
		needsRecency: true,
		field:        fieldMessage,
		prompt:       prompt.StoreRecommendation,
	},
}
