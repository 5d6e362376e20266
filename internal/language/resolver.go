// Package language classifies free text into the supported language set.
//
// English is handled by a statistical classifier alone. Russian and
// Ukrainian share the Cyrillic script and overlap heavily, so the classifier
// verdict is refined by a deterministic marker cascade: alphabet characters
// unique to one language outrank language-specific function words, which
// outrank a character-frequency comparison. Each later stage is more
// ambiguous than the one before it and only runs when the earlier stages
// stayed silent.
package language

import (
	"regexp"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Characters that exist in exactly one of the two Cyrillic alphabets.
const (
	ukrainianChars = "іїєґ"
	russianChars   = "ыэъ"
)

// Function words that occur in one language only. Closed lists: whole-token
// matches, checked after the alphabet test.
var (
	ukrainianWords = []string{"чи", "який", "мені", "тобі", "цей", "той", "ця", "та", "ті", "тих"}
	russianWords   = []string{"или", "который", "мне", "тебе", "этот", "тот", "эта", "эти", "тех"}
)

// cyrillicRe matches any Cyrillic letter used by either language.
var cyrillicRe = regexp.MustCompile(`[а-яА-ЯёЁіїєґІЇЄҐ]`)

// Resolver classifies text snippets. It is safe for concurrent use.
type Resolver struct {
	detector lingua.LanguageDetector
}

// NewResolver builds a Resolver restricted to the supported languages.
func NewResolver() *Resolver {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.English, lingua.Russian, lingua.Ukrainian).
		Build()
	return &Resolver{detector: detector}
}

// Resolve classifies text, returning def when the text is too short or
// carries no usable signal.
func (r *Resolver) Resolve(text string, def Code) Code {
	if len([]rune(strings.TrimSpace(text))) < 3 {
		return def
	}

	detected, ok := r.detector.DetectLanguageOf(text)
	if !ok {
		// Classifier produced nothing usable: fall through to the marker
		// cascade on the raw text.
		if isCyrillic(text) {
			return disambiguateCyrillic(text)
		}
		return def
	}

	switch detected {
	case lingua.English:
		return English
	case lingua.Russian:
		// The classifier routinely mislabels Ukrainian as Russian; always
		// re-check with the markers.
		return disambiguateCyrillic(text)
	case lingua.Ukrainian:
		if hasRussianMarkers(text) {
			return Russian
		}
		return Ukrainian
	}

	if isCyrillic(text) {
		return disambiguateCyrillic(text)
	}
	return def
}

func isCyrillic(text string) bool {
	return cyrillicRe.MatchString(text)
}

func hasUkrainianMarkers(text string) bool {
	lower := strings.ToLower(text)
	if strings.ContainsAny(lower, ukrainianChars) {
		return true
	}
	return containsWord(lower, ukrainianWords)
}

func hasRussianMarkers(text string) bool {
	lower := strings.ToLower(text)
	if strings.ContainsAny(lower, russianChars) {
		return true
	}
	return containsWord(lower, russianWords)
}

func containsWord(lower string, words []string) bool {
	for _, token := range strings.Fields(lower) {
		for _, w := range words {
			if token == w {
				return true
			}
		}
	}
	return false
}

// disambiguateCyrillic decides between Ukrainian and Russian for text in the
// shared script. Alphabet markers first, then function words, then the
// і/и frequency fallback.
func disambiguateCyrillic(text string) Code {
	lower := strings.ToLower(text)

	if strings.ContainsAny(lower, ukrainianChars) {
		return Ukrainian
	}
	if strings.ContainsAny(lower, russianChars) {
		return Russian
	}
	if containsWord(lower, ukrainianWords) {
		return Ukrainian
	}
	if containsWord(lower, russianWords) {
		return Russian
	}

	// Frequency fallback: Ukrainian favors 'і' where Russian writes 'и'.
	iCount := strings.Count(lower, "і")
	yCount := strings.Count(lower, "и")
	if iCount > 0 && (yCount == 0 || float64(iCount)/float64(iCount+yCount) > 0.3) {
		return Ukrainian
	}
	return Russian
}
