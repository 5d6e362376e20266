// Package match resolves free-text card names against the catalog.
//
// Resolution is exact-first: the normalized query is looked up in a
// per-language name index, and only on a miss does the fuzzy scorer run.
// Fuzzy scoring uses the fuzzywuzzy weighted ratio (0–100), which tolerates
// typos, partial input and reordered tokens.
package match

import (
	"errors"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/dstuk/tarot-bot/internal/deck"
	"github.com/dstuk/tarot-bot/internal/language"
)

const (
	// DefaultThreshold is the minimum weighted-ratio score a fuzzy candidate
	// must reach to count as a match.
	DefaultThreshold = 75

	// topK caps how many candidates are retained per query.
	topK = 5
)

// ErrNoneRecognized is returned by ResolveList when not a single entry of a
// multi-card input could be resolved.
var ErrNoneRecognized = errors.New("no card names recognized")

// Candidate is one fuzzy match with its score.
type Candidate struct {
	Card  *deck.Card
	Score int
}

// Result holds the outcome of resolving a multi-card input. Unrecognized
// entries do not block the ones that resolved.
type Result struct {
	Cards        []*deck.Card
	Unrecognized []string
}

type indexedName struct {
	norm string
	card *deck.Card
}

// Matcher holds the read-only normalized name indexes.
type Matcher struct {
	threshold int
	exact     map[language.Code]map[string]*deck.Card
	names     map[language.Code][]indexedName
}

// New indexes the catalog. threshold ≤ 0 selects DefaultThreshold.
func New(cat *deck.Catalog, threshold int) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	m := &Matcher{
		threshold: threshold,
		exact:     make(map[language.Code]map[string]*deck.Card),
		names:     make(map[language.Code][]indexedName),
	}
	for _, code := range language.All() {
		m.exact[code] = make(map[string]*deck.Card)
	}
	for _, card := range cat.Cards() {
		for _, code := range language.All() {
			norm := Normalize(card.Name(code), code)
			m.exact[code][norm] = card
			m.names[code] = append(m.names[code], indexedName{norm: norm, card: card})
		}
	}
	return m
}

// Match resolves a single free-text name. Exact normalized hits return
// immediately; otherwise the best fuzzy candidate at or above the threshold
// wins.
func (m *Matcher) Match(query string, code language.Code) (*deck.Card, bool) {
	norm := Normalize(query, code)
	if norm == "" {
		return nil, false
	}
	if card, ok := m.exact[code][norm]; ok {
		return card, true
	}
	candidates := m.fuzzyCandidates(norm, code)
	if len(candidates) == 0 {
		return nil, false
	}
	return candidates[0].Card, true
}

// Candidates returns the top fuzzy candidates for a query, best first. An
// exact hit is returned alone with a score of 100.
func (m *Matcher) Candidates(query string, code language.Code) []Candidate {
	norm := Normalize(query, code)
	if norm == "" {
		return nil
	}
	if card, ok := m.exact[code][norm]; ok {
		return []Candidate{{Card: card, Score: 100}}
	}
	return m.fuzzyCandidates(norm, code)
}

func (m *Matcher) fuzzyCandidates(norm string, code language.Code) []Candidate {
	var candidates []Candidate
	for _, entry := range m.names[code] {
		score := fuzzy.WRatio(norm, entry.norm)
		if score >= m.threshold {
			candidates = append(candidates, Candidate{Card: entry.card, Score: score})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}

// ResolveList tokenizes comma-separated input into independent queries and
// resolves each one. Entries that fail to resolve are reported in
// Result.Unrecognized; ErrNoneRecognized is returned only when nothing
// resolved at all.
func (m *Matcher) ResolveList(input string, code language.Code) (Result, error) {
	var res Result
	seen := make(map[int]bool)
	for _, part := range strings.Split(input, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		card, ok := m.Match(name, code)
		if !ok {
			res.Unrecognized = append(res.Unrecognized, name)
			continue
		}
		if seen[card.ID] {
			continue
		}
		seen[card.ID] = true
		res.Cards = append(res.Cards, card)
	}
	if len(res.Cards) == 0 {
		return res, ErrNoneRecognized
	}
	return res, nil
}
