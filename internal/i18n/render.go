package i18n

import (
	"fmt"
	"strings"

	"github.com/dstuk/tarot-bot/internal/deck"
	"github.com/dstuk/tarot-bot/internal/language"
)

// RenderReading formats a completed automated reading: title, the question,
// the drawn cards with their positions, the interpretation and a disclaimer.
// Output is lightweight Markdown, which both transports render fine.
func RenderReading(question string, cards []*deck.Card, positions []string, interpretation string, code language.Code) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n\n", Text("msg_reading_title", code))
	if question != "" {
		fmt.Fprintf(&b, "*%s:* %s\n\n", Text("label_question", code), question)
	}
	fmt.Fprintf(&b, "*%s:*\n", Text("label_cards_drawn", code))
	for i, card := range cards {
		position := fmt.Sprintf("%d", i+1)
		if i < len(positions) {
			position = positions[i]
		}
		fmt.Fprintf(&b, "%d. *%s*: %s\n", i+1, position, card.Name(code))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "*%s:*\n%s\n\n", Text("label_interpretation", code), interpretation)
	b.WriteString(Text("msg_disclaimer", code))
	return b.String()
}

// RenderCustomReading formats a reading over user-named cards. There are no
// position labels; unrecognized names are appended so the user sees what was
// skipped.
func RenderCustomReading(question string, cards []*deck.Card, unrecognized []string, interpretation string, code language.Code) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n\n", Text("msg_reading_title", code))
	if question != "" {
		fmt.Fprintf(&b, "*%s:* %s\n\n", Text("label_question", code), question)
	}
	fmt.Fprintf(&b, "*%s:*\n", Text("label_your_cards", code))
	for i, card := range cards {
		fmt.Fprintf(&b, "%d. %s\n", i+1, card.Name(code))
	}
	if len(unrecognized) > 0 {
		fmt.Fprintf(&b, "\n%s: %s\n", Text("label_unrecognized", code), strings.Join(unrecognized, ", "))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "*%s:*\n%s\n\n", Text("label_interpretation", code), interpretation)
	b.WriteString(Text("msg_disclaimer", code))
	return b.String()
}

// PaymentPrompt formats the localized payment request for the given amount.
func PaymentPrompt(amount int, code language.Code) string {
	return fmt.Sprintf(Text("msg_payment", code), amount)
}
