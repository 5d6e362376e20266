// Package payment issues reading invoices.
//
// Telegram Stars were the original billing rail; over Matrix there is no
// native payment API, so the shipped backend records the invoice and trusts
// an out-of-band confirmation. The Backend interface keeps the engine
// independent of whichever rail ends up wired in.
package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// StarsPerReading is the price of one reading once the free allowance is
// spent.
const StarsPerReading = 20

// Invoice identifies one pending payment request.
type Invoice struct {
	ID     string
	UserID string
	Amount int
	Issued time.Time
}

// Backend creates invoices for users who owe for a reading.
type Backend interface {
	RequestPayment(ctx context.Context, userID string, amount int) (Invoice, error)
}

// LogBackend issues invoices and records them in the structured log. It never
// fails; confirmation arrives as a separate engine event.
type LogBackend struct {
	logger *slog.Logger
}

func NewLogBackend(logger *slog.Logger) *LogBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogBackend{logger: logger}
}

func (b *LogBackend) RequestPayment(ctx context.Context, userID string, amount int) (Invoice, error) {
	inv := Invoice{
		ID:     uuid.NewString(),
		UserID: userID,
		Amount: amount,
		Issued: time.Now().UTC(),
	}
	b.logger.InfoContext(ctx, "payment requested",
		"invoice_id", inv.ID,
		"user_id", inv.UserID,
		"amount", inv.Amount,
	)
	return inv, nil
}
