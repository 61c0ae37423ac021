package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"citystyle-be/internal/constant"
	"citystyle-be/pkg/llm"
)

// Template pairs a city-parameterised system prompt with the task
// instruction appended after the grounding snippets.
type Template struct {
	System      string
	Instruction string
}

var (
	TrendSummary = Template{
		System:      constant.TrendSummarySystemPrompt,
		Instruction: constant.TrendSummaryInstruction,
	}
	HistoricalComparison = Template{
		System:      constant.HistoricalComparisonSystemPrompt,
		Instruction: constant.HistoricalComparisonInstruction,
	}
	TrendingItems = Template{
		System:      constant.TrendingItemsSystemPrompt,
		Instruction: constant.TrendingItemsInstruction,
	}
	StoreRecommendation = Template{
		System:      constant.StoreRecommendationSystemPrompt,
		Instruction: constant.StoreRecommendationInstruction,
	}
)

// Build renders the pair for a city and the snippet texts of one search.
func (t Template) Build(city string, snippets []string) llm.PromptPair {
	system := t.System
	if strings.Contains(system, "%[1]s") {
		system = fmt.Sprintf(system, city)
	}
	return llm.PromptPair{
		SystemInstruction: system,
		UserMessage:       constant.SearchResultsLabel + encodeSnippets(snippets) + "\n\n" + t.Instruction,
	}
}

// Filter builds the safety-filter pair over the primary completion text,
// grounded on the same snippets as the primary stage.
func Filter(snippets []string, text string) llm.PromptPair {
	return llm.PromptPair{
		SystemInstruction: constant.ImageFilterSystemPrompt,
		UserMessage: constant.SearchResultsLabel + encodeSnippets(snippets) + "\n\n" +
			constant.ImageFilterInstruction + "\n\n" + constant.FilterTextLabel + text,
	}
}

// TrendImage wraps filtered trend text into an image prompt.
func TrendImage(filtered string) string {
	return fmt.Sprintf(constant.TrendImagePrompt, filtered)
}

func Outfit(items string) llm.PromptPair {
	return llm.PromptPair{
		SystemInstruction: constant.OutfitSystemPrompt,
		UserMessage:       fmt.Sprintf(constant.OutfitUserPrompt, items),
	}
}

func OutfitImage(items string) string {
	return fmt.Sprintf(constant.OutfitImagePrompt, items)
}

// encodeSnippets renders snippets as a JSON array without HTML escaping.
func encodeSnippets(snippets []string) string {
	if snippets == nil {
		snippets = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snippets); err != nil {
		return "[]"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
