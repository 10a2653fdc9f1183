package events

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// WalletChange is the state of one wallet after a workflow touched it.
type WalletChange struct {
	UserID        int             `json:"user_id"`
	Delta         decimal.Decimal `json:"delta"`
	LockedDelta   decimal.Decimal `json:"locked_delta"`
	Balance       decimal.Decimal `json:"balance"`
	LockedBalance decimal.Decimal `json:"locked_balance"`
}

// LedgerEvent describes a committed money movement.
type LedgerEvent struct {
	Type      string          `json:"type"`
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Wallets   []WalletChange  `json:"wallets"`
	TsUnixMs  int64           `json:"ts_unix_ms"`
}

// Key partitions events of the same entity together.
func (e LedgerEvent) Key() string {
	return e.Reference
}

func Reference(entity string, id int) string {
	return entity + ":" + strconv.Itoa(id)
}
