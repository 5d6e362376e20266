package i18n_test

import (
	"strings"
	"testing"

	"github.com/dstuk/tarot-bot/internal/deck"
	"github.com/dstuk/tarot-bot/internal/i18n"
	"github.com/dstuk/tarot-bot/internal/language"
)

func TestText_FallsBackToEnglish(t *testing.T) {
	if got := i18n.Text("msg_welcome", language.Code("fr")); !strings.Contains(got, "Welcome") {
		t.Errorf("unsupported language did not fall back to English: %q", got)
	}
	if got := i18n.Text("no_such_key", language.English); got != "no_such_key" {
		t.Errorf("unknown key = %q, want the key itself", got)
	}
}

func TestText_AllLanguagesCoverAllKeys(t *testing.T) {
	// Every key present in English must exist in ru and uk too; the
	// fallback is for emergencies, not a translation backlog.
	keys := []string{
		"msg_welcome", "msg_help", "msg_ask_question", "msg_ask_cards",
		"msg_processing", "msg_reading_title", "msg_disclaimer", "msg_payment",
		"label_question", "label_cards_drawn", "label_your_cards",
		"label_interpretation", "label_unrecognized",
		"err_invalid_state", "err_short_question", "err_long_question",
		"err_no_cards", "err_upstream", "err_rate_limit",
	}
	for _, code := range []language.Code{language.Russian, language.Ukrainian} {
		english := make(map[string]bool)
		for _, key := range keys {
			english[i18n.Text(key, language.English)] = true
		}
		for _, key := range keys {
			if got := i18n.Text(key, code); got == key || english[got] {
				t.Errorf("%s translation missing for %q", code, key)
			}
		}
	}
}

func TestRenderReading_ContainsAllSections(t *testing.T) {
	cat, err := deck.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	sun, _ := cat.ByID(19)
	moon, _ := cat.ByID(18)
	fool, _ := cat.ByID(0)

	out := i18n.RenderReading(
		"Что меня ждёт?",
		[]*deck.Card{sun, moon, fool},
		[]string{"Прошлое", "Настоящее", "Будущее"},
		"Свет сменяет сомнение.",
		language.Russian,
	)

	for _, want := range []string{"Ваш расклад Таро", "Вопрос", "Прошлое", "Солнце", "Луна", "Дурак", "Толкование", "Свет сменяет сомнение."} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered reading missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCustomReading_ListsUnrecognized(t *testing.T) {
	cat, err := deck.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	sun, _ := cat.ByID(19)

	out := i18n.RenderCustomReading("", []*deck.Card{sun}, []string{"zzz"}, "Bright days.", language.English)

	if !strings.Contains(out, "The Sun") || !strings.Contains(out, "zzz") {
		t.Errorf("custom reading missing card or unrecognized entry:\n%s", out)
	}
	if strings.Contains(out, "Question") {
		t.Error("empty question still rendered a question section")
	}
}
