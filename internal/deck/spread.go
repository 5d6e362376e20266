package deck

import "github.com/dstuk/tarot-bot/internal/language"

// threeCardPositions are the localized position labels of the default
// Past/Present/Future spread.
var threeCardPositions = map[language.Code][]string{
	language.English:   {"Past", "Present", "Future"},
	language.Russian:   {"Прошлое", "Настоящее", "Будущее"},
	language.Ukrainian: {"Минуле", "Теперішнє", "Майбутнє"},
}

// singleCardPositions label the one-card guidance spread.
var singleCardPositions = map[language.Code][]string{
	language.English:   {"Guidance"},
	language.Russian:   {"Совет"},
	language.Ukrainian: {"Порада"},
}

// ThreeCardSpread draws three random cards for a Past/Present/Future
// reading and returns them with position labels in the given language.
func ThreeCardSpread(cat *Catalog, code language.Code) ([]*Card, []string) {
	return cat.Draw(3), PositionLabels(3, code)
}

// SingleCardSpread draws one card for quick guidance.
func SingleCardSpread(cat *Catalog, code language.Code) ([]*Card, []string) {
	return cat.Draw(1), positionsFor(singleCardPositions, code)
}

// PositionLabels returns the localized labels for an n-card spread. Only the
// three-card layout has distinct position meanings.
func PositionLabels(n int, code language.Code) []string {
	if n == 1 {
		return positionsFor(singleCardPositions, code)
	}
	return positionsFor(threeCardPositions, code)
}

func positionsFor(table map[language.Code][]string, code language.Code) []string {
	if labels, ok := table[code]; ok {
		return labels
	}
	return table[language.English]
}
