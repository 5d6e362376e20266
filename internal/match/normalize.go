package match

import (
	"strings"

	"github.com/dstuk/tarot-bot/internal/language"
)

// fillerPrefixes are articles and lead-in words users habitually type before
// a card name. Stripped repeatedly so "the card the sun" still resolves.
var fillerPrefixes = map[language.Code][]string{
	language.English:   {"the ", "card "},
	language.Russian:   {"карта "},
	language.Ukrainian: {"карта "},
}

// numberWords canonicalizes informal leading number words to the rank word
// the catalog uses: "два кубков" becomes "двойка кубков". Hand-curated seed
// table; inflected forms can be added as they show up in real traffic.
// Russian entries are in ё-folded form because folding runs first.
var numberWords = map[language.Code]map[string]string{
	language.Russian: {
		"два":     "двойка",
		"две":     "двойка",
		"три":     "тройка",
		"четыре":  "четверка",
		"пять":    "пятерка",
		"шесть":   "шестерка",
		"семь":    "семерка",
		"восемь":  "восьмерка",
		"девять":  "девятка",
		"десять":  "десятка",
	},
	language.Ukrainian: {
		"два":     "двійка",
		"дві":     "двійка",
		"три":     "трійка",
		"чотири":  "четвірка",
		"п'ять":   "п'ятірка",
		"шість":   "шістка",
		"сім":     "сімка",
		"вісім":   "вісімка",
		"дев'ять": "дев'ятка",
		"десять":  "десятка",
	},
}

// charFolder maps spelling variants that are interchangeable in user input:
// Russian ё is routinely typed as е, and Unicode apostrophes vary.
var charFolder = strings.NewReplacer(
	"ё", "е",
	"’", "'",
	"ʼ", "'",
	"`", "'",
)

// Normalize prepares a name for comparison: lowercase, trimmed, variant
// characters folded, filler prefixes stripped, and for the Cyrillic
// languages a leading informal number word replaced by its canonical rank
// form. Applied identically to queries and catalog names.
func Normalize(s string, code language.Code) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = charFolder.Replace(s)
	s = strings.Join(strings.Fields(s), " ")

	for stripped := true; stripped; {
		stripped = false
		for _, prefix := range fillerPrefixes[code] {
			if strings.HasPrefix(s, prefix) {
				s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
				stripped = true
			}
		}
	}

	if table, ok := numberWords[code]; ok {
		head, rest, found := strings.Cut(s, " ")
		if canonical, ok := table[head]; ok {
			if found {
				s = canonical + " " + rest
			} else {
				s = canonical
			}
		}
	}

	return s
}
