package deck

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/dstuk/tarot-bot/internal/language"
)

//go:embed cards.yaml
var catalogYAML []byte

//go:embed catalog.schema.json
var catalogSchema []byte

// Catalog is the immutable indexed card set. Built once at startup; loading
// fails fast when the data file is empty or structurally invalid.
type Catalog struct {
	cards []*Card
	byID  map[int]*Card
}

type catalogFile struct {
	MajorArcana []struct {
		ID       int                 `yaml:"id"`
		Names    map[string]string   `yaml:"names"`
		Keywords map[string][]string `yaml:"keywords"`
	} `yaml:"major_arcana"`
	Ranks []struct {
		Number int               `yaml:"number"`
		Names  map[string]string `yaml:"names"`
	} `yaml:"ranks"`
	Suits map[string]struct {
		Names    map[string]string   `yaml:"names"`
		Keywords map[string][]string `yaml:"keywords"`
	} `yaml:"suits"`
}

// Load parses the embedded catalog, validates it against the schema and
// builds the card indexes.
func Load() (*Catalog, error) {
	if err := validateSchema(catalogYAML); err != nil {
		return nil, fmt.Errorf("card catalog failed validation: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(catalogYAML, &file); err != nil {
		return nil, fmt.Errorf("parse card catalog: %w", err)
	}

	cat := &Catalog{byID: make(map[int]*Card)}

	for _, entry := range file.MajorArcana {
		card := &Card{
			ID:       entry.ID,
			Names:    localizedNames(entry.Names),
			Keywords: localizedKeywords(entry.Keywords),
			Arcana:   ArcanaMajor,
			Number:   entry.ID,
		}
		if err := cat.add(card); err != nil {
			return nil, err
		}
	}

	// Minor Arcana names are composed from the rank and suit tables:
	// English reads "Two of Cups", the Slavic languages pair the rank word
	// with the genitive suit name ("Двойка Кубков").
	ranks := file.Ranks
	sort.Slice(ranks, func(i, j int) bool { return ranks[i].Number < ranks[j].Number })

	for si, suitKey := range Suits {
		suit, ok := file.Suits[suitKey]
		if !ok {
			return nil, fmt.Errorf("card catalog: missing suit %q", suitKey)
		}
		for _, rank := range ranks {
			names := make(map[language.Code]string, 3)
			names[language.English] = rank.Names["en"] + " of " + suit.Names["en"]
			names[language.Russian] = rank.Names["ru"] + " " + suit.Names["ru"]
			names[language.Ukrainian] = rank.Names["uk"] + " " + suit.Names["uk"]

			card := &Card{
				ID:       22 + si*14 + rank.Number - 1,
				Names:    names,
				Keywords: localizedKeywords(suit.Keywords),
				Arcana:   ArcanaMinor,
				Suit:     suitKey,
				Number:   rank.Number,
			}
			if err := cat.add(card); err != nil {
				return nil, err
			}
		}
	}

	if len(cat.cards) != 78 {
		return nil, fmt.Errorf("card catalog: built %d cards, want 78", len(cat.cards))
	}
	return cat, nil
}

func (c *Catalog) add(card *Card) error {
	if err := card.validate(); err != nil {
		return fmt.Errorf("card catalog: %w", err)
	}
	if _, dup := c.byID[card.ID]; dup {
		return fmt.Errorf("card catalog: duplicate id %d", card.ID)
	}
	c.cards = append(c.cards, card)
	c.byID[card.ID] = card
	return nil
}

// Cards returns all cards in id order.
func (c *Catalog) Cards() []*Card {
	return c.cards
}

// ByID looks a card up by id.
func (c *Catalog) ByID(id int) (*Card, bool) {
	card, ok := c.byID[id]
	return card, ok
}

// Len returns the catalog size.
func (c *Catalog) Len() int {
	return len(c.cards)
}

// Draw returns n distinct random cards.
func (c *Catalog) Draw(n int) []*Card {
	if n > len(c.cards) {
		n = len(c.cards)
	}
	drawn := make([]*Card, 0, n)
	for _, idx := range rand.Perm(len(c.cards))[:n] {
		drawn = append(drawn, c.cards[idx])
	}
	return drawn
}

// validateSchema checks the raw YAML document against the embedded JSON
// schema before any card is built. The YAML is re-encoded through
// encoding/json because the validator operates on JSON-decoded values.
func validateSchema(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("re-encode catalog: %w", err)
	}
	var jsonDoc any
	if err := json.Unmarshal(jsonBytes, &jsonDoc); err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("catalog.schema.json", bytes.NewReader(catalogSchema)); err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	schema, err := compiler.Compile("catalog.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	return schema.Validate(jsonDoc)
}

func localizedNames(in map[string]string) map[language.Code]string {
	out := make(map[language.Code]string, len(in))
	for k, v := range in {
		out[language.Code(k)] = v
	}
	return out
}

func localizedKeywords(in map[string][]string) map[language.Code][]string {
	out := make(map[language.Code][]string, len(in))
	for k, v := range in {
		out[language.Code(k)] = v
	}
	return out
}
