// Package session holds per-user conversation state and its persistence.
//
// A Session is the single mutable record the state machine works on. It is
// loaded, mutated and saved once per turn; the engine serializes that cycle
// per user key, so the types here carry no locking of their own.
package session

import (
	"fmt"
	"time"

	"github.com/dstuk/tarot-bot/internal/language"
)

// State is the conversation state of a user session.
type State string

const (
	StateIdle                  State = "idle"
	StateAwaitingPayment       State = "awaiting_payment"
	StateAwaitingQuestion      State = "awaiting_question"
	StateAwaitingCustomQuestion State = "awaiting_custom_question"
	StateAwaitingCards         State = "awaiting_cards"
	StateProcessing            State = "processing"
)

// Valid reports whether s is one of the defined states.
func (s State) Valid() bool {
	switch s {
	case StateIdle, StateAwaitingPayment, StateAwaitingQuestion,
		StateAwaitingCustomQuestion, StateAwaitingCards, StateProcessing:
		return true
	}
	return false
}

// ReadingKind distinguishes automated draws from user-supplied combinations.
type ReadingKind string

const (
	ReadingAutomated ReadingKind = "automated"
	ReadingCustom    ReadingKind = "custom"
)

// Reading is an immutable record of one completed interpretation. It is
// appended to the session history and never mutated afterwards.
type Reading struct {
	Kind           ReadingKind   `json:"kind"`
	EntityIDs      []int         `json:"entityIds"`
	Question       string        `json:"question"`
	PositionLabels []string      `json:"positionLabels"`
	ResultText     string        `json:"resultText"`
	Language       language.Code `json:"language"`
	Timestamp      time.Time     `json:"timestamp"`
}

// Session is one user's conversation state.
//
// Invariant: ReadingCount == len(ReadingHistory). AppendReading maintains it;
// Validate checks it before every save.
type Session struct {
	UserID         string            `json:"userId"`
	Language       language.Code     `json:"language"`
	State          State             `json:"state"`
	Context        map[string]string `json:"context"`
	ReadingCount   int               `json:"readingCount"`
	ReadingHistory []Reading         `json:"readingHistory"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// New creates a fresh Idle session for the given user.
func New(userID string) *Session {
	now := time.Now().UTC()
	return &Session{
		UserID:    userID,
		Language:  language.English,
		State:     StateIdle,
		Context:   make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetLanguage updates the session language. Unsupported codes are ignored so
// the field can never hold free text.
func (s *Session) SetLanguage(code language.Code) {
	if code.Valid() {
		s.Language = code
	}
}

// AppendReading records a completed reading and keeps the count invariant.
func (s *Session) AppendReading(r Reading) {
	s.ReadingHistory = append(s.ReadingHistory, r)
	s.ReadingCount = len(s.ReadingHistory)
}

// Validate checks the structural invariants before persistence.
func (s *Session) Validate() error {
	if !s.State.Valid() {
		return fmt.Errorf("session %s: invalid state %q", s.UserID, s.State)
	}
	if !s.Language.Valid() {
		return fmt.Errorf("session %s: invalid language %q", s.UserID, s.Language)
	}
	if s.ReadingCount != len(s.ReadingHistory) {
		return fmt.Errorf("session %s: reading count %d != history length %d",
			s.UserID, s.ReadingCount, len(s.ReadingHistory))
	}
	return nil
}
