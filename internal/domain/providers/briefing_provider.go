package providers

import (
	"context"
	"errors"
)

// ErrBriefingUnauthorized is returned when the LLM provider rejects the
// configured credentials.
var ErrBriefingUnauthorized = errors.New("briefing provider unauthorized")

// BriefingResult is the raw model output plus usage accounting.
type BriefingResult struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// BriefingProvider generates a morning briefing from a formatted schedule
// block.
type BriefingProvider interface {
	GenerateBriefing(ctx context.Context, scheduleBlock string) (*BriefingResult, error)
}
