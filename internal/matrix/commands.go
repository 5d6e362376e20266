package matrix

import (
	"strings"

	"github.com/dstuk/tarot-bot/internal/engine"
)

// Command words in all supported languages. Matching is case-insensitive on
// the whole trimmed message; anything longer is free text for the engine.
var (
	startWords   = []string{"/start", "start", "hi", "hello", "привет", "привіт"}
	helpWords    = []string{"/help", "help", "помощь", "допомога"}
	readingWords = []string{"/reading", "reading", "расклад", "розклад"}
	explainWords = []string{"/explain", "explain", "объясни", "поясни"}
	dailyWords   = []string{"/daily", "daily", "карта дня"}
	paidWords    = []string{"/paid", "paid", "оплачено", "сплачено"}
)

// ParseEvent maps a raw message body onto an engine event.
func ParseEvent(body string) engine.Event {
	word := strings.ToLower(strings.TrimSpace(body))
	switch {
	case matches(word, startWords):
		return engine.Welcome{}
	case matches(word, helpWords):
		return engine.HelpRequest{}
	case matches(word, readingWords):
		return engine.StartAutomated{}
	case matches(word, explainWords):
		return engine.StartCustom{}
	case matches(word, dailyWords):
		return engine.DailyCard{}
	case matches(word, paidWords):
		return engine.PaymentConfirmed{}
	}
	return engine.TextInput{Text: body}
}

func matches(word string, words []string) bool {
	for _, w := range words {
		if word == w {
			return true
		}
	}
	return false
}
