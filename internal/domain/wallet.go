package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/betstream/pkg/contracts/events"
)

const DefaultCurrency = "USD"

// MoneyPlaces is the scale amounts are stored with.
const MoneyPlaces = 2

var ErrAmountPrecision = NewError(ErrValidation, "amount must have at most 2 decimal places")

// IsMoney reports whether d fits the stored scale without rounding.
func IsMoney(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyPlaces))
}

// Wallet holds the funds of a single user. LockedBalance is the part of
// Balance reserved by open obligations and never exceeds it.
type Wallet struct {
	ID            int             `db:"id"`
	UserID        int             `db:"user_id"`
	Balance       decimal.Decimal `db:"balance"`
	LockedBalance decimal.Decimal `db:"locked_balance"`
	Currency      string          `db:"currency"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (w *Wallet) Available() decimal.Decimal {
	return w.Balance.Sub(w.LockedBalance)
}

// CanCover reports whether amount fits into the available funds.
func (w *Wallet) CanCover(amount decimal.Decimal) bool {
	return w.Available().GreaterThanOrEqual(amount)
}

// The mutations below are plain arithmetic. Callers check preconditions.

func (w *Wallet) Debit(amount decimal.Decimal) {
	w.Balance = w.Balance.Sub(amount)
}

func (w *Wallet) Credit(amount decimal.Decimal) {
	w.Balance = w.Balance.Add(amount)
}

func (w *Wallet) Lock(amount decimal.Decimal) {
	w.LockedBalance = w.LockedBalance.Add(amount)
}

func (w *Wallet) Unlock(amount decimal.Decimal) {
	w.LockedBalance = w.LockedBalance.Sub(amount)
}

// Consistent reports whether 0 <= locked <= balance holds.
func (w *Wallet) Consistent() bool {
	return !w.LockedBalance.IsNegative() && w.LockedBalance.LessThanOrEqual(w.Balance)
}

// Change describes the wallet after a movement of delta and lockedDelta.
func (w *Wallet) Change(delta, lockedDelta decimal.Decimal) events.WalletChange {
	return events.WalletChange{
		UserID:        w.UserID,
		Delta:         delta,
		LockedDelta:   lockedDelta,
		Balance:       w.Balance,
		LockedBalance: w.LockedBalance,
	}
}
