package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/betstream/internal/domain"
)

type DepositRequestDTO struct {
	Method          string          `json:"method" validate:"required,oneof=crypto cash" example:"crypto"`
	Amount          decimal.Decimal `json:"amount" validate:"required,money,gte=5,lte=10000" swaggertype:"string" example:"100.00"`
	CryptoName      *string         `json:"crypto_name,omitempty" validate:"required_if=Method crypto" example:"USDT"`
	TransactionHash *string         `json:"transaction_hash,omitempty" validate:"required_if=Method crypto" example:"0xabc123"`
	Location        *string         `json:"location,omitempty" validate:"required_if=Method cash"`
}

func (r DepositRequestDTO) ToDomain(userID int) *domain.Deposit {
	return &domain.Deposit{
		UserID:          userID,
		Method:          domain.DepositMethod(r.Method),
		Amount:          r.Amount,
		CryptoName:      r.CryptoName,
		TransactionHash: r.TransactionHash,
		Location:        r.Location,
	}
}

type DepositResponseDTO struct {
	ID              int             `json:"id" example:"1"`
	UserID          int             `json:"user_id" example:"1"`
	Method          string          `json:"method" example:"crypto"`
	Amount          decimal.Decimal `json:"amount" swaggertype:"string" example:"100.00"`
	CryptoName      *string         `json:"crypto_name,omitempty"`
	TransactionHash *string         `json:"transaction_hash,omitempty"`
	Location        *string         `json:"location,omitempty"`
	Status          string          `json:"status" example:"pending"`
	CreatedAt       time.Time       `json:"created_at"`
	ProcessedAt     *time.Time      `json:"processed_at,omitempty"`
}

func NewDepositDTO(d *domain.Deposit) DepositResponseDTO {
	return DepositResponseDTO{
		ID:              d.ID,
		UserID:          d.UserID,
		Method:          string(d.Method),
		Amount:          d.Amount,
		CryptoName:      d.CryptoName,
		TransactionHash: d.TransactionHash,
		Location:        d.Location,
		Status:          string(d.Status),
		CreatedAt:       d.CreatedAt,
		ProcessedAt:     d.ProcessedAt,
	}
}

func NewDepositDTOs(deposits []domain.Deposit) []DepositResponseDTO {
	out := make([]DepositResponseDTO, len(deposits))
	for i := range deposits {
		out[i] = NewDepositDTO(&deposits[i])
	}
	return out
}
