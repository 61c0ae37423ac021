package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type PerformRagRequest struct {
	Type  string `query:"type" validate:"required"`
	Query string `query:"query" validate:"required"`
	City  string `query:"city"`
}

// PerformRagResponse carries summary (+ imageUrls for tldr) or message (buy).
type PerformRagResponse struct {
	Summary   string   `json:"summary,omitempty"`
	ImageUrls []string `json:"imageUrls,omitempty"`
	Message   string   `json:"message,omitempty"`
}

type GenerateOutfitRequest struct {
	SelectedItems ItemList `json:"selectedItems" validate:"required,min=1"`
}

type GenerateOutfitResponse struct {
	Outfit   string `json:"outfit"`
	ImageUrl string `json:"imageUrl"`
}

// ItemList accepts either a JSON array of strings or a single pre-joined string.
type ItemList []string

func (l *ItemList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		if single == "" {
			*l = ItemList{}
			return nil
		}
		*l = ItemList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("selectedItems must be a string or an array of strings: %w", err)
	}
	*l = many
	return nil
}
