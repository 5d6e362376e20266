// Package deck owns the immutable 78-card catalog: the card model, the
// embedded data file it is loaded from, and the spreads drawn from it.
package deck

import (
	"fmt"

	"github.com/dstuk/tarot-bot/internal/language"
)

// Arcana classes.
const (
	ArcanaMajor = "major"
	ArcanaMinor = "minor"
)

// Suits of the Minor Arcana.
var Suits = []string{"wands", "cups", "swords", "pentacles"}

// Card is one catalog entry. Cards are built once at startup and never
// mutated afterwards.
type Card struct {
	ID       int
	Names    map[language.Code]string
	Keywords map[language.Code][]string
	Arcana   string
	Suit     string // empty for Major Arcana
	Number   int    // 0–21 for major, 1–14 for minor
}

// Name returns the card name in the given language, falling back to English.
func (c *Card) Name(code language.Code) string {
	if name, ok := c.Names[code]; ok {
		return name
	}
	return c.Names[language.English]
}

// KeywordList returns the card keywords in the given language, falling back
// to English.
func (c *Card) KeywordList(code language.Code) []string {
	if kw, ok := c.Keywords[code]; ok {
		return kw
	}
	return c.Keywords[language.English]
}

// validate checks the structural rules for one card.
func (c *Card) validate() error {
	if c.ID < 0 || c.ID > 77 {
		return fmt.Errorf("card %d: id out of range", c.ID)
	}
	for _, code := range language.All() {
		if c.Names[code] == "" {
			return fmt.Errorf("card %d: missing %s name", c.ID, code)
		}
	}
	switch c.Arcana {
	case ArcanaMajor:
		if c.Suit != "" {
			return fmt.Errorf("card %d: major arcana must not have a suit", c.ID)
		}
		if c.Number < 0 || c.Number > 21 {
			return fmt.Errorf("card %d: major arcana number %d out of range", c.ID, c.Number)
		}
	case ArcanaMinor:
		if !validSuit(c.Suit) {
			return fmt.Errorf("card %d: invalid suit %q", c.ID, c.Suit)
		}
		if c.Number < 1 || c.Number > 14 {
			return fmt.Errorf("card %d: minor arcana number %d out of range", c.ID, c.Number)
		}
	default:
		return fmt.Errorf("card %d: invalid arcana %q", c.ID, c.Arcana)
	}
	return nil
}

func validSuit(suit string) bool {
	for _, s := range Suits {
		if s == suit {
			return true
		}
	}
	return false
}
