package betservice

import (
	"context"
	"errors"

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
	Create(ctx context.Context, bet *domain.Bet) (*domain.Bet, error)
	ListByUserID(ctx context.Context, userID int, status domain.BetStatus) ([]domain.Bet, error)
}

// MatchProvider resolves the current state and odds of a match.
type MatchProvider interface {
	GetMatch(ctx context.Context, id int) (*domain.GameMatch, error)
}

var MinAmount = decimal.RequireFromString("0.01")

// OddsPlaces is the scale odds are stored with.
const OddsPlaces = 4

var (
	ErrMatchNotFound       = domain.NewError(domain.ErrNotFound, "match not found")
	ErrMatchClosed         = domain.NewError(domain.ErrInvalidTransition, "match is no longer open for betting")
	ErrInvalidBetType      = domain.NewError(domain.ErrValidation, "bet type must be team1_win, draw or team2_win")
	ErrInvalidAmount       = domain.NewError(domain.ErrValidation, "bet amount must be at least 0.01")
	ErrInsufficientBalance = domain.NewError(domain.ErrInsufficientFunds, "insufficient balance")
	ErrFundsReserved       = domain.NewError(domain.ErrInsufficientFunds, "balance is reserved by pending challenges or withdrawals")
)

type Service struct {
	repo      Repo
	matches   MatchProvider
	wallets   ledger.Wallets
	outbox    ledger.Outbox
	txManager pg.TXManager
}

func New(repo Repo, matches MatchProvider, wallets ledger.Wallets, outbox ledger.Outbox, txManager pg.TXManager) *Service {
	return &Service{
		repo:      repo,
		matches:   matches,
		wallets:   wallets,
		outbox:    outbox,
		txManager: txManager,
	}
}

// Place debits the stake and records a pending bet at the odds published
// right now. The funding check is against the total balance, but a bet that
// would eat into reserved funds is refused.
func (s *Service) Place(ctx context.Context, userID, matchID int, betType domain.BetType, amount decimal.Decimal) (*domain.Bet, error) {
	if amount.LessThan(MinAmount) {
		return nil, ErrInvalidAmount
	}
	if !domain.IsMoney(amount) {
		return nil, domain.ErrAmountPrecision
	}

	match, err := s.matches.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrMatchNotFound
		}
		zap.L().Error("failed to fetch match", zap.Int("matchID", matchID), zap.Error(err))
		return nil, err
	}
	if !match.OpenForBetting() {
		return nil, ErrMatchClosed
	}
	odds, ok := match.OddsFor(betType)
	if !ok {
		return nil, ErrInvalidBetType
	}
	// The stored odds and the frozen potential win must agree.
	odds = odds.Round(OddsPlaces)

	var bet *domain.Bet
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		wallet, err := s.wallets.Acquire(ctx, userID)
		if err != nil {
			return err
		}
		if wallet.Balance.LessThan(amount) {
			return ErrInsufficientBalance
		}
		wallet.Debit(amount)
		if !wallet.Consistent() {
			return ErrFundsReserved
		}
		if err := s.wallets.Save(ctx, wallet); err != nil {
			return err
		}

		bet, err = s.repo.Create(ctx, &domain.Bet{
			UserID:       userID,
			GameMatchID:  match.ID,
			BetType:      betType,
			Amount:       amount,
			Odds:         odds,
			PotentialWin: amount.Mul(odds).Round(domain.MoneyPlaces),
			Status:       domain.BetPending,
		})
		if err != nil {
			return err
		}

		return s.outbox.Add(ctx, topics.BetPlaced, events.LedgerEvent{
			Type:      topics.BetPlaced,
			Reference: events.Reference("bet", bet.ID),
			Amount:    amount,
			Wallets:   []events.WalletChange{wallet.Change(amount.Neg(), decimal.Zero)},
		})
	})
	metrics.ObserveWorkflow("bet_place", err)
	if err != nil {
		zap.L().Info("bet placement failed", zap.Int("userID", userID), zap.Int("matchID", matchID), zap.Error(err))
		return nil, err
	}

	zap.L().Info("bet placed", zap.Int("betID", bet.ID), zap.Int("userID", userID), zap.String("potentialWin", bet.PotentialWin.String()))
	return bet, nil
}

func (s *Service) List(ctx context.Context, userID int, status domain.BetStatus) ([]domain.Bet, error) {
	bets, err := s.repo.ListByUserID(ctx, userID, status)
	if err != nil {
		zap.L().Error("failed to fetch bets", zap.Error(err))
		return nil, err
	}
	return bets, nil
}
