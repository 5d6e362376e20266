// Package oracle produces reading interpretations through an LLM backend.
//
// The engine only sees the Provider interface; concrete providers exist for
// Anthropic and OpenAI, picked at startup from whichever credential is
// configured (Anthropic preferred when both keys are set).
package oracle

import (
	"context"
	"errors"

	"github.com/dstuk/tarot-bot/internal/deck"
	"github.com/dstuk/tarot-bot/internal/language"
)

// ErrNotConfigured is returned by NewFromKeys when no backend credential is
// present.
var ErrNotConfigured = errors.New("no generation backend configured")

// Request describes one interpretation to generate.
type Request struct {
	Cards     []*deck.Card
	Question  string
	Positions []string // empty for custom readings
	Language  language.Code
}

// Provider generates interpretation text. Implementations must respect ctx
// cancellation; the engine bounds every call with a timeout.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// NewFromKeys builds the configured provider. model may be empty, in which
// case each backend uses its own default.
func NewFromKeys(anthropicKey, openaiKey, model string) (Provider, error) {
	if anthropicKey != "" {
		return NewAnthropic(anthropicKey, model), nil
	}
	if openaiKey != "" {
		return NewOpenAI(openaiKey, model), nil
	}
	return nil, ErrNotConfigured
}
