package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/betstream/internal/domain"
)

type CreateChallengeRequestDTO struct {
	Game      string          `json:"game" validate:"required,max=255" example:"chess"`
	BetAmount decimal.Decimal `json:"bet_amount" validate:"required,money,gte=10,lte=10000" swaggertype:"string" example:"50.00"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

type SubmitScoreRequestDTO struct {
	Score *int `json:"score" validate:"required,gte=0" example:"5"`
}

type ChallengeResponseDTO struct {
	ID            int             `json:"id" example:"1"`
	CreatorID     int             `json:"creator_id" example:"1"`
	OpponentID    *int            `json:"opponent_id,omitempty" example:"2"`
	Game          string          `json:"game" example:"chess"`
	BetAmount     decimal.Decimal `json:"bet_amount" swaggertype:"string" example:"50.00"`
	Status        string          `json:"status" example:"open"`
	CreatorScore  *int            `json:"creator_score,omitempty"`
	OpponentScore *int            `json:"opponent_score,omitempty"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewChallengeDTO(c *domain.Challenge) ChallengeResponseDTO {
	return ChallengeResponseDTO{
		ID:            c.ID,
		CreatorID:     c.CreatorID,
		OpponentID:    c.OpponentID,
		Game:          c.Game,
		BetAmount:     c.BetAmount,
		Status:        string(c.Status),
		CreatorScore:  c.CreatorScore,
		OpponentScore: c.OpponentScore,
		ExpiresAt:     c.ExpiresAt,
		CreatedAt:     c.CreatedAt,
	}
}

func NewChallengeDTOs(challenges []domain.Challenge) []ChallengeResponseDTO {
	out := make([]ChallengeResponseDTO, len(challenges))
	for i := range challenges {
		out[i] = NewChallengeDTO(&challenges[i])
	}
	return out
}
