package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/betstream/internal/domain"
)

type WalletResponseDTO struct {
	ID               int             `json:"id" example:"1"`
	UserID           int             `json:"user_id" example:"1"`
	Balance          decimal.Decimal `json:"balance" swaggertype:"string" example:"100.00"`
	LockedBalance    decimal.Decimal `json:"locked_balance" swaggertype:"string" example:"20.00"`
	AvailableBalance decimal.Decimal `json:"available_balance" swaggertype:"string" example:"80.00"`
	Currency         string          `json:"currency" example:"USD"`
}

func NewWalletDTO(w *domain.Wallet) WalletResponseDTO {
	return WalletResponseDTO{
		ID:               w.ID,
		UserID:           w.UserID,
		Balance:          w.Balance,
		LockedBalance:    w.LockedBalance,
		AvailableBalance: w.Available(),
		Currency:         w.Currency,
	}
}
