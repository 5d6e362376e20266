// Package engine drives the per-user conversation state machine.
//
// One inbound turn is: admission check, session load, language refresh,
// dispatch on (state, event), session save, reply. The whole cycle runs under
// a per-user lock; turns for different users never contend.
package engine

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dstuk/tarot-bot/internal/deck"
	"github.com/dstuk/tarot-bot/internal/i18n"
	"github.com/dstuk/tarot-bot/internal/language"
	"github.com/dstuk/tarot-bot/internal/match"
	"github.com/dstuk/tarot-bot/internal/observability"
	"github.com/dstuk/tarot-bot/internal/oracle"
	"github.com/dstuk/tarot-bot/internal/payment"
	"github.com/dstuk/tarot-bot/internal/ratelimit"
	"github.com/dstuk/tarot-bot/internal/session"
)

// Question length bounds. The lower bound applies to the trimmed text, the
// upper bound to the raw text.
const (
	minQuestionRunes = 5
	maxQuestionRunes = 500
)

// Session context keys for state carried between turns.
const (
	ctxFlow     = "flow"
	ctxQuestion = "custom_question"
)

// Flow values stashed under ctxFlow while payment is pending.
const (
	flowAutomated = "automated"
	flowCustom    = "custom"
)

// Suggested reply actions, rendered by the transport as it sees fit.
const (
	ActionReading = "reading"
	ActionExplain = "explain"
	ActionHelp    = "help"
)

// Event is one inbound user action. The concrete types below are the only
// implementations.
type Event interface {
	isEvent()
}

// Welcome greets a user, typically on their first message or a start command.
type Welcome struct{}

// HelpRequest asks for usage instructions.
type HelpRequest struct{}

// StartAutomated begins the automated three-card flow.
type StartAutomated struct{}

// StartCustom begins the explain-my-own-cards flow.
type StartCustom struct{}

// DailyCard requests a free single-card guidance reading.
type DailyCard struct{}

// PaymentConfirmed is emitted by the transport when a pending invoice settles.
type PaymentConfirmed struct{}

// TextInput is a free-text message.
type TextInput struct {
	Text string
}

func (Welcome) isEvent()          {}
func (HelpRequest) isEvent()      {}
func (StartAutomated) isEvent()   {}
func (StartCustom) isEvent()      {}
func (DailyCard) isEvent()        {}
func (PaymentConfirmed) isEvent() {}
func (TextInput) isEvent()        {}

// Reply is the outbound side of a turn.
type Reply struct {
	Text    string
	Actions []string
}

// Options carries the collaborators and policy knobs for an Engine.
type Options struct {
	Sessions      *session.Manager
	Limiter       *ratelimit.Limiter
	Resolver      *language.Resolver
	Matcher       *match.Matcher
	Catalog       *deck.Catalog
	Oracle        oracle.Provider
	Payments      payment.Backend
	AllowListed   func(userID string) bool
	OracleTimeout time.Duration
}

// Engine routes turns through the state machine. All fields are set at
// construction and never mutated, so Engine is safe for concurrent use.
type Engine struct {
	sessions      *session.Manager
	limiter       *ratelimit.Limiter
	resolver      *language.Resolver
	matcher       *match.Matcher
	catalog       *deck.Catalog
	oracle        oracle.Provider
	payments      payment.Backend
	allowListed   func(userID string) bool
	oracleTimeout time.Duration
	locks         *keyedMutex
}

func New(opts Options) *Engine {
	if opts.OracleTimeout <= 0 {
		opts.OracleTimeout = 30 * time.Second
	}
	if opts.AllowListed == nil {
		opts.AllowListed = func(string) bool { return false }
	}
	return &Engine{
		sessions:      opts.Sessions,
		limiter:       opts.Limiter,
		resolver:      opts.Resolver,
		matcher:       opts.Matcher,
		catalog:       opts.Catalog,
		oracle:        opts.Oracle,
		payments:      opts.Payments,
		allowListed:   opts.AllowListed,
		oracleTimeout: opts.OracleTimeout,
		locks:         newKeyedMutex(),
	}
}

// HandleTurn processes one inbound event for a user and returns the reply to
// send. User-facing failures (validation, unrecognized cards, rate limits,
// upstream outages) produce both a localized Reply and a typed error; the
// reply is always safe to send as-is.
func (e *Engine) HandleTurn(ctx context.Context, userID string, ev Event) (Reply, error) {
	unlock := e.locks.Lock(userID)
	defer unlock()

	log := observability.WithTurn(ctx)

	admitted, remaining := e.limiter.Allow(userID)
	if !admitted {
		log.Warn("turn rejected by rate limit", "user_id", userID)
		lang := e.peekLanguage(ctx, userID, ev)
		return Reply{Text: i18n.Text("err_rate_limit", lang)}, &AdmissionError{UserID: userID}
	}
	log.Debug("turn admitted", "user_id", userID, "remaining", remaining)

	sess, err := e.sessions.GetOrCreate(ctx, userID)
	if err != nil {
		return Reply{Text: i18n.Text("err_upstream", language.English)}, &UpstreamError{Err: err}
	}

	// A crash during generation can leave a processing state persisted.
	// Treat it as idle so the user is not locked out.
	if sess.State == session.StateProcessing {
		sess.State = session.StateIdle
	}

	if t, ok := ev.(TextInput); ok {
		sess.SetLanguage(e.resolver.Resolve(t.Text, sess.Language))
	}

	reply, err := e.dispatch(ctx, sess, ev)
	if saveErr := e.sessions.Save(ctx, sess); saveErr != nil {
		log.Error("session save failed", "user_id", userID, "error", saveErr)
		if err == nil {
			err = &UpstreamError{Err: saveErr}
		}
	}
	return reply, err
}

// peekLanguage picks the best language for a pre-session error message
// without touching stored state.
func (e *Engine) peekLanguage(ctx context.Context, userID string, ev Event) language.Code {
	if sess, err := e.sessions.GetOrCreate(ctx, userID); err == nil {
		if t, ok := ev.(TextInput); ok {
			return e.resolver.Resolve(t.Text, sess.Language)
		}
		return sess.Language
	}
	return language.English
}

func (e *Engine) dispatch(ctx context.Context, sess *session.Session, ev Event) (Reply, error) {
	switch ev := ev.(type) {
	case Welcome:
		return Reply{
			Text:    i18n.Text("msg_welcome", sess.Language),
			Actions: []string{ActionReading, ActionExplain, ActionHelp},
		}, nil
	case HelpRequest:
		return Reply{
			Text:    i18n.Text("msg_help", sess.Language),
			Actions: []string{ActionReading, ActionExplain},
		}, nil
	case StartAutomated:
		return e.handleStart(ctx, sess, flowAutomated)
	case StartCustom:
		return e.handleStart(ctx, sess, flowCustom)
	case DailyCard:
		return e.handleDailyCard(ctx, sess)
	case PaymentConfirmed:
		return e.handlePaymentConfirmed(sess)
	case TextInput:
		return e.handleText(ctx, sess, ev.Text)
	}
	return e.invalidEvent(sess)
}

func (e *Engine) handleStart(ctx context.Context, sess *session.Session, flow string) (Reply, error) {
	if sess.State != session.StateIdle {
		return e.invalidEvent(sess)
	}
	if e.paymentWaived(sess) {
		return e.enterQuestionState(sess, flow), nil
	}

	if _, err := e.payments.RequestPayment(ctx, sess.UserID, payment.StarsPerReading); err != nil {
		sess.State = session.StateIdle
		return Reply{Text: i18n.Text("err_upstream", sess.Language)}, &UpstreamError{Err: err}
	}
	sess.State = session.StateAwaitingPayment
	sess.Context[ctxFlow] = flow
	return Reply{Text: i18n.PaymentPrompt(payment.StarsPerReading, sess.Language)}, nil
}

// paymentWaived applies the waiver policy in order: allow-list first, then
// the first-reading grant.
func (e *Engine) paymentWaived(sess *session.Session) bool {
	if e.allowListed(sess.UserID) {
		return true
	}
	return sess.ReadingCount == 0
}

// handleDailyCard runs a one-card guidance reading in a single turn. Daily
// cards are always free and need no question.
func (e *Engine) handleDailyCard(ctx context.Context, sess *session.Session) (Reply, error) {
	if sess.State != session.StateIdle {
		return e.invalidEvent(sess)
	}

	cards, positions := deck.SingleCardSpread(e.catalog, sess.Language)
	sess.State = session.StateProcessing

	result, err := e.generate(ctx, oracle.Request{
		Cards:     cards,
		Positions: positions,
		Language:  sess.Language,
	})
	if err != nil {
		sess.State = session.StateIdle
		return Reply{Text: i18n.Text("err_upstream", sess.Language)}, &UpstreamError{Err: err}
	}

	sess.AppendReading(session.Reading{
		Kind:           session.ReadingAutomated,
		EntityIDs:      cardIDs(cards),
		PositionLabels: positions,
		ResultText:     result,
		Language:       sess.Language,
		Timestamp:      time.Now().UTC(),
	})
	sess.State = session.StateIdle
	return Reply{Text: i18n.RenderReading("", cards, positions, result, sess.Language)}, nil
}

func (e *Engine) handlePaymentConfirmed(sess *session.Session) (Reply, error) {
	if sess.State != session.StateAwaitingPayment {
		return e.invalidEvent(sess)
	}
	flow := sess.Context[ctxFlow]
	delete(sess.Context, ctxFlow)
	if flow == "" {
		flow = flowAutomated
	}
	return e.enterQuestionState(sess, flow), nil
}

func (e *Engine) enterQuestionState(sess *session.Session, flow string) Reply {
	if flow == flowCustom {
		sess.State = session.StateAwaitingCustomQuestion
	} else {
		sess.State = session.StateAwaitingQuestion
	}
	return Reply{Text: i18n.Text("msg_ask_question", sess.Language)}
}

func (e *Engine) handleText(ctx context.Context, sess *session.Session, text string) (Reply, error) {
	switch sess.State {
	case session.StateAwaitingQuestion:
		return e.handleQuestion(ctx, sess, text)
	case session.StateAwaitingCustomQuestion:
		return e.handleCustomQuestion(sess, text)
	case session.StateAwaitingCards:
		return e.handleCards(ctx, sess, text)
	default:
		return e.invalidEvent(sess)
	}
}

func (e *Engine) handleQuestion(ctx context.Context, sess *session.Session, text string) (Reply, error) {
	question, verr := validateQuestion(text)
	if verr != nil {
		return Reply{Text: i18n.Text(verr.messageKey(), sess.Language)}, verr
	}

	cards, positions := deck.ThreeCardSpread(e.catalog, sess.Language)
	sess.State = session.StateProcessing

	result, err := e.generate(ctx, oracle.Request{
		Cards:     cards,
		Question:  question,
		Positions: positions,
		Language:  sess.Language,
	})
	if err != nil {
		sess.State = session.StateIdle
		return Reply{Text: i18n.Text("err_upstream", sess.Language)}, &UpstreamError{Err: err}
	}

	sess.AppendReading(session.Reading{
		Kind:           session.ReadingAutomated,
		EntityIDs:      cardIDs(cards),
		Question:       question,
		PositionLabels: positions,
		ResultText:     result,
		Language:       sess.Language,
		Timestamp:      time.Now().UTC(),
	})
	sess.State = session.StateIdle
	return Reply{Text: i18n.RenderReading(question, cards, positions, result, sess.Language)}, nil
}

func (e *Engine) handleCustomQuestion(sess *session.Session, text string) (Reply, error) {
	question, verr := validateQuestion(text)
	if verr != nil {
		return Reply{Text: i18n.Text(verr.messageKey(), sess.Language)}, verr
	}
	sess.Context[ctxQuestion] = question
	sess.State = session.StateAwaitingCards
	return Reply{Text: i18n.Text("msg_ask_cards", sess.Language)}, nil
}

func (e *Engine) handleCards(ctx context.Context, sess *session.Session, text string) (Reply, error) {
	resolved, err := e.matcher.ResolveList(text, sess.Language)
	if err != nil {
		return Reply{Text: i18n.Text("err_no_cards", sess.Language)},
			&ResolutionError{Unrecognized: resolved.Unrecognized}
	}

	question := sess.Context[ctxQuestion]
	sess.State = session.StateProcessing

	result, genErr := e.generate(ctx, oracle.Request{
		Cards:    resolved.Cards,
		Question: question,
		Language: sess.Language,
	})
	if genErr != nil {
		sess.State = session.StateIdle
		delete(sess.Context, ctxQuestion)
		return Reply{Text: i18n.Text("err_upstream", sess.Language)}, &UpstreamError{Err: genErr}
	}

	sess.AppendReading(session.Reading{
		Kind:       session.ReadingCustom,
		EntityIDs:  cardIDs(resolved.Cards),
		Question:   question,
		ResultText: result,
		Language:   sess.Language,
		Timestamp:  time.Now().UTC(),
	})
	delete(sess.Context, ctxQuestion)
	sess.State = session.StateIdle
	return Reply{
		Text: i18n.RenderCustomReading(question, resolved.Cards, resolved.Unrecognized, result, sess.Language),
	}, nil
}

func (e *Engine) generate(ctx context.Context, req oracle.Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.oracleTimeout)
	defer cancel()
	return e.oracle.Generate(ctx, req)
}

func (e *Engine) invalidEvent(sess *session.Session) (Reply, error) {
	return Reply{
			Text:    i18n.Text("err_invalid_state", sess.Language),
			Actions: []string{ActionReading, ActionExplain},
		},
		&InvalidEventError{State: string(sess.State)}
}

// validateQuestion returns the trimmed question or the bound it violates.
// Bounds are inclusive: 5 trimmed runes and 500 raw runes are both accepted.
func validateQuestion(text string) (string, *ValidationError) {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minQuestionRunes {
		return "", &ValidationError{Reason: QuestionTooShort}
	}
	if utf8.RuneCountInString(text) > maxQuestionRunes {
		return "", &ValidationError{Reason: QuestionTooLong}
	}
	return trimmed, nil
}

func (e *ValidationError) messageKey() string {
	if e.Reason == QuestionTooLong {
		return "err_long_question"
	}
	return "err_short_question"
}

func cardIDs(cards []*deck.Card) []int {
	ids := make([]int, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}
