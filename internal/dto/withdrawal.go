package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/betstream/internal/domain"
)

type WithdrawalRequestDTO struct {
	Amount decimal.Decimal `json:"amount" validate:"required,money,gt=0,lte=10000" swaggertype:"string" example:"50.00"`
}

type WithdrawalResponseDTO struct {
	ID          int             `json:"id" example:"1"`
	UserID      int             `json:"user_id" example:"1"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"50.00"`
	Status      string          `json:"status" example:"pending"`
	CreatedAt   time.Time       `json:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
}

func NewWithdrawalDTO(w *domain.Withdrawal) WithdrawalResponseDTO {
	return WithdrawalResponseDTO{
		ID:          w.ID,
		UserID:      w.UserID,
		Amount:      w.Amount,
		Status:      string(w.Status),
		CreatedAt:   w.CreatedAt,
		ProcessedAt: w.ProcessedAt,
	}
}

func NewWithdrawalDTOs(withdrawals []domain.Withdrawal) []WithdrawalResponseDTO {
	out := make([]WithdrawalResponseDTO, len(withdrawals))
	for i := range withdrawals {
		out[i] = NewWithdrawalDTO(&withdrawals[i])
	}
	return out
}
