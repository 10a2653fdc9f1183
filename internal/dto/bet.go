package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/betstream/internal/domain"
)

type PlaceBetRequestDTO struct {
	GameMatchID int             `json:"game_match_id" validate:"required,gt=0" example:"42"`
	BetType     string          `json:"bet_type" validate:"required,oneof=team1_win draw team2_win" example:"team1_win"`
	Amount      decimal.Decimal `json:"amount" validate:"required,money,gte=0.01" swaggertype:"string" example:"20.00"`
}

type BetResponseDTO struct {
	ID           int             `json:"id" example:"1"`
	GameMatchID  int             `json:"game_match_id" example:"42"`
	BetType      string          `json:"bet_type" example:"team1_win"`
	Amount       decimal.Decimal `json:"amount" swaggertype:"string" example:"20.00"`
	Odds         decimal.Decimal `json:"odds" swaggertype:"string" example:"2.50"`
	PotentialWin decimal.Decimal `json:"potential_win" swaggertype:"string" example:"50.00"`
	Status       string          `json:"status" example:"pending"`
	CreatedAt    time.Time       `json:"created_at"`
}

func NewBetDTO(b *domain.Bet) BetResponseDTO {
	return BetResponseDTO{
		ID:           b.ID,
		GameMatchID:  b.GameMatchID,
		BetType:      string(b.BetType),
		Amount:       b.Amount,
		Odds:         b.Odds,
		PotentialWin: b.PotentialWin,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
	}
}

func NewBetDTOs(bets []domain.Bet) []BetResponseDTO {
	out := make([]BetResponseDTO, len(bets))
	for i := range bets {
		out[i] = NewBetDTO(&bets[i])
	}
	return out
}
