package withdrawalservice

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/internal/metrics"
	"github.com/GlebRadaev/betstream/internal/pg"
	"github.com/GlebRadaev/betstream/internal/service/ledger"
	"github.com/GlebRadaev/betstream/pkg/contracts/events"
	"github.com/GlebRadaev/betstream/pkg/contracts/topics"
)

type Repo interface {
	CreateWithdrawal(ctx context.Context, withdrawal *domain.Withdrawal) (*domain.Withdrawal, error)
	GetByID(ctx context.Context, id int) (*domain.Withdrawal, error)
	GetByIDForUpdate(ctx context.Context, id int) (*domain.Withdrawal, error)
	UpdateStatus(ctx context.Context, withdrawal *domain.Withdrawal) error
	GetWithdrawalsByUserID(ctx context.Context, userID int) ([]domain.Withdrawal, error)
}

var MaxAmount = decimal.NewFromInt(10000)

var (
	ErrWithdrawalNotFound   = domain.NewError(domain.ErrNotFound, "withdrawal not found")
	ErrWithdrawalNotPending = domain.NewError(domain.ErrInvalidTransition, "withdrawal is not pending")
	ErrInsufficientBalance  = domain.NewError(domain.ErrInsufficientFunds, "insufficient available balance")
	ErrInvalidAmount        = domain.NewError(domain.ErrValidation, "withdrawal amount must be positive and at most 10000")
)

type Service struct {
	repo      Repo
	wallets   ledger.Wallets
	outbox    ledger.Outbox
	txManager pg.TXManager
	now       func() time.Time
}

func New(repo Repo, wallets ledger.Wallets, outbox ledger.Outbox, txManager pg.TXManager) *Service {
	return &Service{
		repo:      repo,
		wallets:   wallets,
		outbox:    outbox,
		txManager: txManager,
		now:       time.Now,
	}
}

// Submit reserves amount in the wallet and records a pending withdrawal.
// The balance itself is reduced only when the withdrawal is approved.
func (s *Service) Submit(ctx context.Context, userID int, amount decimal.Decimal) (*domain.Withdrawal, error) {
	if !amount.IsPositive() || amount.GreaterThan(MaxAmount) {
		return nil, ErrInvalidAmount
	}
	if !domain.IsMoney(amount) {
		return nil, domain.ErrAmountPrecision
	}

	var withdrawal *domain.Withdrawal
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		wallet, err := s.wallets.Acquire(ctx, userID)
		if err != nil {
			return err
		}
		if !wallet.CanCover(amount) {
			return ErrInsufficientBalance
		}
		wallet.Lock(amount)
		if err := s.wallets.Save(ctx, wallet); err != nil {
			return err
		}

		withdrawal, err = s.repo.CreateWithdrawal(ctx, &domain.Withdrawal{
			UserID: userID,
			Amount: amount,
			Status: domain.WithdrawalPending,
		})
		if err != nil {
			return err
		}

		return s.outbox.Add(ctx, topics.WithdrawalCreated, events.LedgerEvent{
			Type:      topics.WithdrawalCreated,
			Reference: events.Reference("withdrawal", withdrawal.ID),
			Amount:    amount,
			Wallets:   []events.WalletChange{wallet.Change(decimal.Zero, amount)},
		})
	})
	metrics.ObserveWorkflow("withdrawal_submit", err)
	if err != nil {
		zap.L().Info("withdrawal submission failed", zap.Int("userID", userID), zap.Error(err))
		return nil, err
	}

	zap.L().Info("withdrawal submitted", zap.Int("withdrawalID", withdrawal.ID), zap.Int("userID", userID))
	return withdrawal, nil
}

// Approve pays out the reserved funds.
func (s *Service) Approve(ctx context.Context, id int) (*domain.Withdrawal, error) {
	return s.settle(ctx, id, domain.ActionApprove)
}

// Reject releases the reservation. The wallet returns to its state before
// the withdrawal was submitted.
func (s *Service) Reject(ctx context.Context, id int) (*domain.Withdrawal, error) {
	return s.settle(ctx, id, domain.ActionReject)
}

func (s *Service) settle(ctx context.Context, id int, action domain.Action) (*domain.Withdrawal, error) {
	topic := topics.WithdrawalApproved
	if action == domain.ActionReject {
		topic = topics.WithdrawalRejected
	}

	var withdrawal *domain.Withdrawal
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		withdrawal, err = s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if withdrawal == nil {
			return ErrWithdrawalNotFound
		}
		if err := withdrawal.Apply(action); err != nil {
			zap.L().Info("illegal withdrawal transition", zap.Int("withdrawalID", id), zap.Error(err))
			return ErrWithdrawalNotPending
		}
		now := s.now()
		withdrawal.ProcessedAt = &now
		if err := s.repo.UpdateStatus(ctx, withdrawal); err != nil {
			return err
		}

		wallet, err := s.wallets.Acquire(ctx, withdrawal.UserID)
		if err != nil {
			return err
		}
		delta := decimal.Zero
		wallet.Unlock(withdrawal.Amount)
		if action == domain.ActionApprove {
			wallet.Debit(withdrawal.Amount)
			delta = withdrawal.Amount.Neg()
		}
		if err := s.wallets.Save(ctx, wallet); err != nil {
			return err
		}

		return s.outbox.Add(ctx, topic, events.LedgerEvent{
			Type:      topic,
			Reference: events.Reference("withdrawal", withdrawal.ID),
			Amount:    withdrawal.Amount,
			Wallets:   []events.WalletChange{wallet.Change(delta, withdrawal.Amount.Neg())},
		})
	})
	metrics.ObserveWorkflow("withdrawal_"+string(action), err)
	if err != nil {
		zap.L().Info("withdrawal settlement failed", zap.Int("withdrawalID", id), zap.String("action", string(action)), zap.Error(err))
		return nil, err
	}

	zap.L().Info("withdrawal settled", zap.Int("withdrawalID", id), zap.String("status", string(withdrawal.Status)))
	return withdrawal, nil
}

func (s *Service) List(ctx context.Context, userID int) ([]domain.Withdrawal, error) {
	withdrawals, err := s.repo.GetWithdrawalsByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch withdrawals", zap.Error(err))
		return nil, err
	}
	return withdrawals, nil
}

// Get returns a withdrawal owned by userID. Foreign withdrawals read as missing.
func (s *Service) Get(ctx context.Context, userID, id int) (*domain.Withdrawal, error) {
	withdrawal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		zap.L().Error("failed to fetch withdrawal", zap.Error(err))
		return nil, err
	}
	if withdrawal == nil || withdrawal.UserID != userID {
		return nil, ErrWithdrawalNotFound
	}
	return withdrawal, nil
}
