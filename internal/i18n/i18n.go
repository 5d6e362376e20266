// Package i18n holds the static message catalogs for the bot interface and
// the rendering of completed readings. English is the fallback for every
// key, so a missing translation degrades rather than breaks.
package i18n

import "github.com/dstuk/tarot-bot/internal/language"

var catalogs = map[language.Code]map[string]string{
	language.English: {
		"msg_welcome":     "Welcome! I read tarot cards. Ask me a question and I will draw a spread for you, or tell me which cards you drew yourself.",
		"msg_help":        "Send “reading” for a three-card reading, or “explain” to interpret cards you already drew. I answer in English, Russian or Ukrainian — just write in your language.",
		"msg_ask_question": "What would you like to ask the cards?",
		"msg_ask_cards":   "Which cards did you draw? List them separated by commas, e.g.: The Sun, The Moon, Two of Cups.",
		"msg_processing":  "Shuffling the deck and reading your cards…",
		"msg_reading_title": "Your Tarot Reading",
		"msg_disclaimer":  "_Tarot readings are for reflection and entertainment; the choices remain yours._",
		"msg_payment":     "A reading costs %d stars. Complete the payment and I will continue.",

		"label_question":       "Question",
		"label_cards_drawn":    "Cards Drawn",
		"label_your_cards":     "Your Cards",
		"label_interpretation": "Interpretation",
		"label_unrecognized":   "I did not recognize",

		"err_invalid_state":  "I wasn't expecting a message right now. Send “reading” or “explain” to begin.",
		"err_short_question": "Your question is a bit too short — please give me at least a full sentence.",
		"err_long_question":  "That question is too long for one reading. Please keep it under 500 characters.",
		"err_no_cards":       "I couldn't recognize any of those card names. Please check the spelling and try again.",
		"err_upstream":       "The cards are silent right now — something went wrong on my side. Please try again in a moment.",
		"err_rate_limit":     "You're asking faster than I can read the cards. Please wait a minute and try again.",
	},
	language.Russian: {
		"msg_welcome":     "Добро пожаловать! Я гадаю на картах Таро. Задайте вопрос — и я сделаю расклад, или назовите карты, которые вы вытянули сами.",
		"msg_help":        "Напишите «расклад» для гадания на трёх картах или «объясни», чтобы истолковать уже вытянутые карты. Пишите на своём языке — я отвечу на нём же.",
		"msg_ask_question": "О чём вы хотите спросить карты?",
		"msg_ask_cards":   "Какие карты вы вытянули? Перечислите их через запятую, например: Солнце, Луна, Двойка Кубков.",
		"msg_processing":  "Тасую колоду и читаю ваши карты…",
		"msg_reading_title": "Ваш расклад Таро",
		"msg_disclaimer":  "_Гадание на Таро — повод для размышления, а выбор всегда за вами._",
		"msg_payment":     "Расклад стоит %d звёзд. Завершите оплату, и я продолжу.",

		"label_question":       "Вопрос",
		"label_cards_drawn":    "Выпавшие карты",
		"label_your_cards":     "Ваши карты",
		"label_interpretation": "Толкование",
		"label_unrecognized":   "Я не распознал",

		"err_invalid_state":  "Сейчас я не ждал сообщения. Напишите «расклад» или «объясни», чтобы начать.",
		"err_short_question": "Вопрос слишком короткий — сформулируйте его хотя бы одним полным предложением.",
		"err_long_question":  "Вопрос слишком длинный для одного расклада. Пожалуйста, уложитесь в 500 символов.",
		"err_no_cards":       "Я не распознал ни одной карты. Проверьте написание и попробуйте ещё раз.",
		"err_upstream":       "Карты молчат — что-то пошло не так на моей стороне. Попробуйте ещё раз через минуту.",
		"err_rate_limit":     "Вы спрашиваете быстрее, чем я успеваю читать карты. Подождите минуту и попробуйте снова.",
	},
	language.Ukrainian: {
		"msg_welcome":     "Ласкаво просимо! Я ворожу на картах Таро. Поставте запитання — і я зроблю розклад, або назвіть карти, які ви витягли самі.",
		"msg_help":        "Напишіть «розклад» для ворожіння на трьох картах або «поясни», щоб розтлумачити вже витягнуті карти. Пишіть своєю мовою — я відповім нею ж.",
		"msg_ask_question": "Про що ви хочете запитати карти?",
		"msg_ask_cards":   "Які карти ви витягли? Перелічіть їх через кому, наприклад: Сонце, Місяць, Двійка Кубків.",
		"msg_processing":  "Тасую колоду та читаю ваші карти…",
		"msg_reading_title": "Ваш розклад Таро",
		"msg_disclaimer":  "_Ворожіння на Таро — привід для роздумів, а вибір завжди за вами._",
		"msg_payment":     "Розклад коштує %d зірок. Завершіть оплату, і я продовжу.",

		"label_question":       "Питання",
		"label_cards_drawn":    "Витягнуті карти",
		"label_your_cards":     "Ваші карти",
		"label_interpretation": "Тлумачення",
		"label_unrecognized":   "Я не розпізнав",

		"err_invalid_state":  "Зараз я не чекав повідомлення. Напишіть «розклад» або «поясни», щоб почати.",
		"err_short_question": "Питання занадто коротке — сформулюйте його хоча б одним повним реченням.",
		"err_long_question":  "Питання занадто довге для одного розкладу. Будь ласка, вкладіться у 500 символів.",
		"err_no_cards":       "Я не розпізнав жодної карти. Перевірте написання та спробуйте ще раз.",
		"err_upstream":       "Карти мовчать — щось пішло не так на моєму боці. Спробуйте ще раз за хвилину.",
		"err_rate_limit":     "Ви питаєте швидше, ніж я встигаю читати карти. Зачекайте хвилину та спробуйте знову.",
	},
}

// Text returns the translation for key in the given language, falling back
// to English, then to the key itself.
func Text(key string, code language.Code) string {
	if cat, ok := catalogs[code]; ok {
		if text, ok := cat[key]; ok {
			return text
		}
	}
	if text, ok := catalogs[language.English][key]; ok {
		return text
	}
	return key
}
