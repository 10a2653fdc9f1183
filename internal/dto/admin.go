package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/betstream/internal/domain"
)

type CreateUserRequestDTO struct {
	Login    string `json:"login" validate:"required,min=3,max=50" example:"moderator"`
	Password string `json:"password" validate:"required,min=8,max=72" example:"secret123"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin" example:"admin"`
}

type StatsResponseDTO struct {
	TotalUsers       int             `json:"total_users" example:"10"`
	TotalChallenges  int             `json:"total_challenges" example:"4"`
	TotalDeposits    decimal.Decimal `json:"total_deposits" swaggertype:"string" example:"1500.00"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals" swaggertype:"string" example:"300.00"`
}

func NewStatsDTO(s *domain.Stats) StatsResponseDTO {
	return StatsResponseDTO{
		TotalUsers:       s.Users,
		TotalChallenges:  s.Challenges,
		TotalDeposits:    s.ApprovedDeposits,
		TotalWithdrawals: s.ApprovedWithdrawals,
	}
}
