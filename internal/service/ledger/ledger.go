// Package ledger declares the wallet and event collaborators shared by the
// money-moving workflows.
package ledger

import (
	"context"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/pkg/contracts/events"
)

// Wallets hands out wallet rows locked for the current unit of work.
type Wallets interface {
	Acquire(ctx context.Context, userID int) (*domain.Wallet, error)
	Save(ctx context.Context, wallet *domain.Wallet) error
}

// Outbox records ledger events inside the current unit of work.
type Outbox interface {
	Add(ctx context.Context, topic string, event events.LedgerEvent) error
}
