package depositservice

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
	Create(ctx context.Context, deposit *domain.Deposit) (*domain.Deposit, error)
	GetByID(ctx context.Context, id int) (*domain.Deposit, error)
	GetByIDForUpdate(ctx context.Context, id int) (*domain.Deposit, error)
	UpdateStatus(ctx context.Context, deposit *domain.Deposit) error
	ListByUserID(ctx context.Context, userID int) ([]domain.Deposit, error)
}

var (
	MinAmount = decimal.NewFromInt(5)
	MaxAmount = decimal.NewFromInt(10000)
)

var (
	ErrDepositNotFound   = domain.NewError(domain.ErrNotFound, "deposit not found")
	ErrDepositNotPending = domain.NewError(domain.ErrInvalidTransition, "deposit is not pending")
	ErrInvalidMethod     = domain.NewError(domain.ErrValidation, "deposit method must be crypto or cash")
	ErrAmountOutOfRange  = domain.NewError(domain.ErrValidation, "deposit amount must be between 5 and 10000")
	ErrMissingCrypto     = domain.NewError(domain.ErrValidation, "crypto deposits require crypto_name and transaction_hash")
	ErrMissingLocation   = domain.NewError(domain.ErrValidation, "cash deposits require location")
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

func blank(s *string) bool {
	return s == nil || *s == ""
}

func validate(deposit *domain.Deposit) error {
	if deposit.Amount.LessThan(MinAmount) || deposit.Amount.GreaterThan(MaxAmount) {
		return ErrAmountOutOfRange
	}
	if !domain.IsMoney(deposit.Amount) {
		return domain.ErrAmountPrecision
	}
	switch deposit.Method {
	case domain.DepositCrypto:
		if blank(deposit.CryptoName) || blank(deposit.TransactionHash) {
			return ErrMissingCrypto
		}
		deposit.Location = nil
	case domain.DepositCash:
		if blank(deposit.Location) {
			return ErrMissingLocation
		}
		deposit.CryptoName, deposit.TransactionHash = nil, nil
	default:
		return ErrInvalidMethod
	}
	return nil
}

// Submit records a pending deposit. Funds arrive only on approval.
func (s *Service) Submit(ctx context.Context, deposit *domain.Deposit) (*domain.Deposit, error) {
	if err := validate(deposit); err != nil {
		zap.L().Info("deposit rejected by validation", zap.Int("userID", deposit.UserID), zap.Error(err))
		return nil, err
	}
	deposit.Status = domain.DepositPending

	created, err := s.repo.Create(ctx, deposit)
	metrics.ObserveWorkflow("deposit_submit", err)
	if err != nil {
		zap.L().Error("can't create deposit", zap.Error(err))
		return nil, err
	}
	zap.L().Info("deposit submitted", zap.Int("depositID", created.ID), zap.Int("userID", created.UserID))
	return created, nil
}

// Approve credits the owner's wallet and closes the deposit in one unit of work.
func (s *Service) Approve(ctx context.Context, id int) (*domain.Deposit, error) {
	var deposit *domain.Deposit
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		deposit, err = s.transition(ctx, id, domain.ActionApprove)
		if err != nil {
			return err
		}

		wallet, err := s.wallets.Acquire(ctx, deposit.UserID)
		if err != nil {
			return err
		}
		wallet.Credit(deposit.Amount)
		if err := s.wallets.Save(ctx, wallet); err != nil {
			return err
		}

		return s.outbox.Add(ctx, topics.DepositApproved, events.LedgerEvent{
			Type:      topics.DepositApproved,
			Reference: events.Reference("deposit", deposit.ID),
			Amount:    deposit.Amount,
			Wallets:   []events.WalletChange{wallet.Change(deposit.Amount, decimal.Zero)},
		})
	})
	metrics.ObserveWorkflow("deposit_approve", err)
	if err != nil {
		zap.L().Info("deposit approval failed", zap.Int("depositID", id), zap.Error(err))
		return nil, err
	}

	zap.L().Info("deposit approved", zap.Int("depositID", id), zap.Int("userID", deposit.UserID))
	return deposit, nil
}

// Reject closes the deposit. The wallet is untouched.
func (s *Service) Reject(ctx context.Context, id int) (*domain.Deposit, error) {
	var deposit *domain.Deposit
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		deposit, err = s.transition(ctx, id, domain.ActionReject)
		if err != nil {
			return err
		}
		return s.outbox.Add(ctx, topics.DepositRejected, events.LedgerEvent{
			Type:      topics.DepositRejected,
			Reference: events.Reference("deposit", deposit.ID),
			Amount:    deposit.Amount,
		})
	})
	metrics.ObserveWorkflow("deposit_reject", err)
	if err != nil {
		zap.L().Info("deposit rejection failed", zap.Int("depositID", id), zap.Error(err))
		return nil, err
	}

	zap.L().Info("deposit rejected", zap.Int("depositID", id))
	return deposit, nil
}

// transition locks the deposit row and moves it out of pending.
func (s *Service) transition(ctx context.Context, id int, action domain.Action) (*domain.Deposit, error) {
	deposit, err := s.repo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if deposit == nil {
		return nil, ErrDepositNotFound
	}
	if err := deposit.Apply(action); err != nil {
		zap.L().Info("illegal deposit transition", zap.Int("depositID", id), zap.Error(err))
		return nil, ErrDepositNotPending
	}

	now := s.now()
	deposit.ProcessedAt = &now
	if err := s.repo.UpdateStatus(ctx, deposit); err != nil {
		return nil, err
	}
	return deposit, nil
}

func (s *Service) List(ctx context.Context, userID int) ([]domain.Deposit, error) {
	deposits, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch deposits", zap.Error(err))
		return nil, err
	}
	return deposits, nil
}

// Get returns a deposit owned by userID.
func (s *Service) Get(ctx context.Context, userID, id int) (*domain.Deposit, error) {
	deposit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		zap.L().Error("failed to fetch deposit", zap.Error(err))
		return nil, err
	}
	if deposit == nil || deposit.UserID != userID {
		return nil, ErrDepositNotFound
	}
	return deposit, nil
}
