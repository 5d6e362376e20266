package oracle

import (
	"fmt"
	"strings"

	"github.com/dstuk/tarot-bot/internal/language"
)

// systemPrompts instruct the model per target language. Kept as full
// translations rather than "answer in X" suffixes: the reading tone matters
// as much as the language.
var systemPrompts = map[language.Code]string{
	language.English: "You are an expert Tarot card reader with deep knowledge of traditional Tarot meanings " +
		"and symbolism. Provide insightful, supportive, and culturally appropriate interpretations. " +
		"Connect the cards meaningfully to the user's question. Be empowering and avoid making " +
		"definitive predictions. Keep interpretations under 3500 characters. " +
		"Format: clear paragraphs, one per card, then an overall interpretation.",
	language.Russian: "Вы эксперт по картам Таро с глубокими знаниями традиционных значений и символики Таро. " +
		"Предоставляйте проницательные, поддерживающие и культурно уместные толкования. " +
		"Значимо связывайте карты с вопросом пользователя. Будьте вдохновляющими и избегайте " +
		"категоричных предсказаний. Держите толкования в пределах 3500 символов. " +
		"Формат: понятные абзацы, один на карту, затем общее толкование.",
	language.Ukrainian: "Ви експерт з карт Таро з глибоким знанням традиційних значень та символіки Таро. " +
		"Надавайте проникливі, підтримуючі та культурно доречні тлумачення. " +
		"Значуще пов'язуйте карти з питанням користувача. Будьте надихаючими та уникайте " +
		"категоричних передбачень. Тримайте тлумачення в межах 3500 символів. " +
		"Формат: зрозумілі абзаци, один на карту, потім загальне тлумачення.",
}

func systemPrompt(code language.Code) string {
	if p, ok := systemPrompts[code]; ok {
		return p
	}
	return systemPrompts[language.English]
}

// buildPrompt renders the user message for one request. Position labels are
// attached when present (automated spread); custom readings list the cards
// plainly.
func buildPrompt(req Request) string {
	var cardInfo []string
	for i, card := range req.Cards {
		header := fmt.Sprintf("Card %d", i+1)
		if i < len(req.Positions) {
			header = req.Positions[i]
		}
		cardInfo = append(cardInfo, fmt.Sprintf("%s: %s\nKeywords: %s",
			header,
			card.Name(req.Language),
			strings.Join(card.KeywordList(req.Language), ", "),
		))
	}

	var b strings.Builder
	if req.Question != "" {
		fmt.Fprintf(&b, "Question: %s\n\n", req.Question)
	}
	fmt.Fprintf(&b, "Cards drawn:\n%s\n\n", strings.Join(cardInfo, "\n\n"))
	fmt.Fprintf(&b, "Please provide a comprehensive Tarot reading interpretation in %s that:\n", req.Language)
	b.WriteString("1. Explains each card in the context of its position and the question\n")
	b.WriteString("2. Shows how the cards relate to each other\n")
	b.WriteString("3. Offers guidance and insights addressing the user's question\n")
	b.WriteString("4. Maintains a supportive and empowering tone")
	return b.String()
}
