package entities

import (
	"time"
)

// Briefing is one generated morning briefing.
type Briefing struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	Text         string    `json:"text"`
	Model        string    `json:"model"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	GeneratedAt  time.Time `json:"generated_at"`
}
