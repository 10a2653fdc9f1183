package walletservice

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GlebRadaev/betstream/internal/domain"
)

type Repo interface {
	GetByUserID(ctx context.Context, userID int) (*domain.Wallet, error)
	GetByUserIDForUpdate(ctx context.Context, userID int) (*domain.Wallet, error)
	GetOrCreate(ctx context.Context, userID int, currency string) (*domain.Wallet, error)
	Update(ctx context.Context, wallet *domain.Wallet) error
}

var ErrInconsistentWallet = errors.New("wallet locked balance out of range")

type Service struct {
	repo     Repo
	currency string
}

func New(repo Repo, currency string) *Service {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &Service{
		repo:     repo,
		currency: currency,
	}
}

// GetOrCreate returns the wallet of userID, creating an empty one on first use.
func (s *Service) GetOrCreate(ctx context.Context, userID int) (*domain.Wallet, error) {
	wallet, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get wallet", zap.Int("userID", userID), zap.Error(err))
		return nil, err
	}
	if wallet != nil {
		return wallet, nil
	}

	wallet, err = s.repo.GetOrCreate(ctx, userID, s.currency)
	if err != nil {
		zap.L().Error("failed to create wallet", zap.Int("userID", userID), zap.Error(err))
		return nil, err
	}
	zap.L().Info("wallet created", zap.Int("userID", userID), zap.String("currency", wallet.Currency))
	return wallet, nil
}

// Acquire returns the wallet of userID locked until the surrounding unit of
// work ends. Must be called inside a transaction.
func (s *Service) Acquire(ctx context.Context, userID int) (*domain.Wallet, error) {
	wallet, err := s.repo.GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet != nil {
		return wallet, nil
	}
	return s.repo.GetOrCreate(ctx, userID, s.currency)
}

// Save persists the wallet after a workflow mutated it.
func (s *Service) Save(ctx context.Context, wallet *domain.Wallet) error {
	if !wallet.Consistent() {
		zap.L().Error("refusing to save inconsistent wallet",
			zap.Int("userID", wallet.UserID),
			zap.String("balance", wallet.Balance.String()),
			zap.String("lockedBalance", wallet.LockedBalance.String()),
		)
		return fmt.Errorf("%w: user %d", ErrInconsistentWallet, wallet.UserID)
	}
	return s.repo.Update(ctx, wallet)
}
