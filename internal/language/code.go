package language

// Code is a supported language code. The bot speaks English plus the two
// Cyrillic-script languages that need marker-based disambiguation.
type Code string

const (
	English   Code = "en"
	Russian   Code = "ru"
	Ukrainian Code = "uk"
)

// Valid reports whether c is one of the supported codes.
func (c Code) Valid() bool {
	return c == English || c == Russian || c == Ukrainian
}

// All returns the supported codes in a stable order.
func All() []Code {
	return []Code{English, Russian, Ukrainian}
}
