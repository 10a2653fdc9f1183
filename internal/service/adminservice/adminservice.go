package adminservice

import (
	"context"

	"go.uber.org/zap"

	"github.com/GlebRadaev/betstream/internal/domain"
)

type StatsRepo interface {
	Get(ctx context.Context) (*domain.Stats, error)
}

type Deposits interface {
	Approve(ctx context.Context, id int) (*domain.Deposit, error)
	Reject(ctx context.Context, id int) (*domain.Deposit, error)
}

type Withdrawals interface {
	Approve(ctx context.Context, id int) (*domain.Withdrawal, error)
	Reject(ctx context.Context, id int) (*domain.Withdrawal, error)
}

type Users interface {
	CreateUser(ctx context.Context, login, password string, role domain.Role) (*domain.User, error)
}

// Service is the back-office surface. Money-moving decisions are delegated
// to the workflows so they run under the same unit-of-work rules.
type Service struct {
	stats       StatsRepo
	deposits    Deposits
	withdrawals Withdrawals
	users       Users
}

func New(stats StatsRepo, deposits Deposits, withdrawals Withdrawals, users Users) *Service {
	return &Service{
		stats:       stats,
		deposits:    deposits,
		withdrawals: withdrawals,
		users:       users,
	}
}

func (s *Service) Stats(ctx context.Context) (*domain.Stats, error) {
	stats, err := s.stats.Get(ctx)
	if err != nil {
		zap.L().Error("failed to collect stats", zap.Error(err))
		return nil, err
	}
	return stats, nil
}

func (s *Service) ApproveDeposit(ctx context.Context, id int) (*domain.Deposit, error) {
	return s.deposits.Approve(ctx, id)
}

func (s *Service) RejectDeposit(ctx context.Context, id int) (*domain.Deposit, error) {
	return s.deposits.Reject(ctx, id)
}

func (s *Service) ApproveWithdrawal(ctx context.Context, id int) (*domain.Withdrawal, error) {
	return s.withdrawals.Approve(ctx, id)
}

func (s *Service) RejectWithdrawal(ctx context.Context, id int) (*domain.Withdrawal, error) {
	return s.withdrawals.Reject(ctx, id)
}

func (s *Service) CreateUser(ctx context.Context, login, password string, role domain.Role) (*domain.User, error) {
	return s.users.CreateUser(ctx, login, password, role)
}
