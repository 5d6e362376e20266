package language_test

import (
	"testing"

	"github.com/dstuk/tarot-bot/internal/language"
)

func TestResolver_EnglishText(t *testing.T) {
	r := language.NewResolver()

	if got := r.Resolve("Hello there, how are you doing today?", language.English); got != language.English {
		t.Errorf("Resolve = %q, want %q", got, language.English)
	}
}

func TestResolver_ShortTextReturnsDefault(t *testing.T) {
	r := language.NewResolver()

	tests := []struct {
		text string
		def  language.Code
	}{
		{"", language.English},
		{"ok", language.English},
		{"  a  ", language.Russian},
	}
	for _, tt := range tests {
		if got := r.Resolve(tt.text, tt.def); got != tt.def {
			t.Errorf("Resolve(%q) = %q, want default %q", tt.text, got, tt.def)
		}
	}
}

func TestResolver_UkrainianUniqueCharacters(t *testing.T) {
	r := language.NewResolver()

	// "ї" and "і" exist only in the Ukrainian alphabet.
	if got := r.Resolve("Привіт, як твої справи сьогодні?", language.English); got != language.Ukrainian {
		t.Errorf("Resolve = %q, want %q", got, language.Ukrainian)
	}
}

func TestResolver_RussianUniqueCharacters(t *testing.T) {
	r := language.NewResolver()

	// "э" and "ы" exist only in the Russian alphabet.
	if got := r.Resolve("Это мы еще посмотрим сегодня вечером", language.English); got != language.Russian {
		t.Errorf("Resolve = %q, want %q", got, language.Russian)
	}
}

func TestResolver_UkrainianFunctionWordWithoutUniqueCharacters(t *testing.T) {
	r := language.NewResolver()

	// No character unique to either alphabet; "чи" is a closed-list
	// Ukrainian function word.
	if got := r.Resolve("чи можна це зробити зараз", language.English); got != language.Ukrainian {
		t.Errorf("Resolve = %q, want %q", got, language.Ukrainian)
	}
}

func TestResolver_CyrillicWithoutMarkersDefaultsToRussian(t *testing.T) {
	r := language.NewResolver()

	// Shared-script text with no unique characters, no function words from
	// either list and no 'і' occurrences lands on the frequency fallback,
	// which classifies Russian.
	if got := r.Resolve("скажите правду про работу", language.English); got != language.Russian {
		t.Errorf("Resolve = %q, want %q", got, language.Russian)
	}
}
