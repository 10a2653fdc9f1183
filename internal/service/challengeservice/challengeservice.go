package challengeservice

import (
	"context"
	"sort"
	"strings"
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
	Create(ctx context.Context, challenge *domain.Challenge) (*domain.Challenge, error)
	GetByID(ctx context.Context, id int) (*domain.Challenge, error)
	GetByIDForUpdate(ctx context.Context, id int) (*domain.Challenge, error)
	Update(ctx context.Context, challenge *domain.Challenge) error
	List(ctx context.Context, filter domain.ChallengeFilter) ([]domain.Challenge, error)
}

const (
	DefaultTTL    = 7 * 24 * time.Hour
	MaxGameLength = 255
)

var (
	MinBet = decimal.NewFromInt(10)
	MaxBet = decimal.NewFromInt(10000)
)

var (
	ErrChallengeNotFound   = domain.NewError(domain.ErrNotFound, "challenge not found")
	ErrChallengeNotOpen    = domain.NewError(domain.ErrInvalidTransition, "challenge is not open")
	ErrChallengeNotInPlay  = domain.NewError(domain.ErrInvalidTransition, "challenge is not accepted or in progress")
	ErrChallengeExpired    = domain.NewError(domain.ErrInvalidTransition, "challenge has expired")
	ErrOwnChallenge        = domain.NewError(domain.ErrInvalidTransition, "cannot accept your own challenge")
	ErrNotCreator          = domain.NewError(domain.ErrForbidden, "only the creator can cancel this challenge")
	ErrNotParticipant      = domain.NewError(domain.ErrForbidden, "only participants can submit scores")
	ErrInsufficientBalance = domain.NewError(domain.ErrInsufficientFunds, "insufficient available balance")
	ErrInvalidGame         = domain.NewError(domain.ErrValidation, "game is required and must be at most 255 characters")
	ErrInvalidBet          = domain.NewError(domain.ErrValidation, "bet amount must be between 10 and 10000")
	ErrExpiryInPast        = domain.NewError(domain.ErrValidation, "expires_at must be in the future")
	ErrInvalidScore        = domain.NewError(domain.ErrValidation, "score must be a non-negative integer")
)

type Service struct {
	repo      Repo
	wallets   ledger.Wallets
	outbox    ledger.Outbox
	txManager pg.TXManager
	ttl       time.Duration
	now       func() time.Time
}

func New(repo Repo, wallets ledger.Wallets, outbox ledger.Outbox, txManager pg.TXManager, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		repo:      repo,
		wallets:   wallets,
		outbox:    outbox,
		txManager: txManager,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Create opens a challenge and locks the creator's stake.
func (s *Service) Create(ctx context.Context, creatorID int, game string, betAmount decimal.Decimal, expiresAt *time.Time) (*domain.Challenge, error) {
	game = strings.TrimSpace(game)
	if game == "" || len(game) > MaxGameLength {
		return nil, ErrInvalidGame
	}
	if betAmount.LessThan(MinBet) || betAmount.GreaterThan(MaxBet) {
		return nil, ErrInvalidBet
	}
	if !domain.IsMoney(betAmount) {
		return nil, domain.ErrAmountPrecision
	}
	now := s.now()
	if expiresAt == nil {
		deadline := now.Add(s.ttl)
		expiresAt = &deadline
	} else if !expiresAt.After(now) {
		return nil, ErrExpiryInPast
	}

	var challenge *domain.Challenge
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		wallet, err := s.wallets.Acquire(ctx, creatorID)
		if err != nil {
			return err
		}
		if !wallet.CanCover(betAmount) {
			return ErrInsufficientBalance
		}
		wallet.Lock(betAmount)
		if err := s.wallets.Save(ctx, wallet); err != nil {
			return err
		}

		challenge, err = s.repo.Create(ctx, &domain.Challenge{
			CreatorID: creatorID,
			Game:      game,
			BetAmount: betAmount,
			Status:    domain.ChallengeOpen,
			ExpiresAt: expiresAt,
		})
		if err != nil {
			return err
		}

		return s.outbox.Add(ctx, topics.ChallengeCreated, events.LedgerEvent{
			Type:      topics.ChallengeCreated,
			Reference: events.Reference("challenge", challenge.ID),
			Amount:    betAmount,
			Wallets:   []events.WalletChange{wallet.Change(decimal.Zero, betAmount)},
		})
	})
	metrics.ObserveWorkflow("challenge_create", err)
	if err != nil {
		zap.L().Info("challenge creation failed", zap.Int("userID", creatorID), zap.Error(err))
		return nil, err
	}

	zap.L().Info("challenge created", zap.Int("challengeID", challenge.ID), zap.Int("userID", creatorID))
	return challenge, nil
}

// Accept locks the opponent's stake. The challenge row stays locked for the
// whole check-then-act sequence, so concurrent acceptors see it one at a time.
func (s *Service) Accept(ctx context.Context, userID, id int) (*domain.Challenge, error) {
	var challenge *domain.Challenge
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		challenge, err = s.lock(ctx, id)
		if err != nil {
			return err
		}
		switch {
		case !challenge.Can(domain.ActionAccept):
			return ErrChallengeNotOpen
		case challenge.IsCreator(userID):
			return ErrOwnChallenge
		case challenge.Expired(s.now()):
			return ErrChallengeExpired
		}

		wallet, err := s.wallets.Acquire(ctx, userID)
		if err != nil {
			return err
		}
		if !wallet.CanCover(challenge.BetAmount) {
			return ErrInsufficientBalance
		}
		wallet.Lock(challenge.BetAmount)
		if err := s.wallets.Save(ctx, wallet); err != nil {
			return err
		}

		challenge.OpponentID = &userID
		if err := challenge.Apply(domain.ActionAccept); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, challenge); err != nil {
			return err
		}

		return s.outbox.Add(ctx, topics.ChallengeAccepted, events.LedgerEvent{
			Type:      topics.ChallengeAccepted,
			Reference: events.Reference("challenge", challenge.ID),
			Amount:    challenge.BetAmount,
			Wallets:   []events.WalletChange{wallet.Change(decimal.Zero, challenge.BetAmount)},
		})
	})
	metrics.ObserveWorkflow("challenge_accept", err)
	if err != nil {
		zap.L().Info("challenge accept failed", zap.Int("challengeID", id), zap.Int("userID", userID), zap.Error(err))
		return nil, err
	}

	zap.L().Info("challenge accepted", zap.Int("challengeID", id), zap.Int("userID", userID))
	return challenge, nil
}

// Cancel withdraws an open challenge and releases the creator's stake.
func (s *Service) Cancel(ctx context.Context, userID, id int) (*domain.Challenge, error) {
	var challenge *domain.Challenge
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		challenge, err = s.lock(ctx, id)
		if err != nil {
			return err
		}
		if !challenge.IsCreator(userID) {
			return ErrNotCreator
		}
		if err := challenge.Apply(domain.ActionCancel); err != nil {
			return ErrChallengeNotOpen
		}

		wallet, err := s.wallets.Acquire(ctx, challenge.CreatorID)
		if err != nil {
			return err
		}
		wallet.Unlock(challenge.BetAmount)
		if err := s.wallets.Save(ctx, wallet); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, challenge); err != nil {
			return err
		}

		return s.outbox.Add(ctx, topics.ChallengeCancelled, events.LedgerEvent{
			Type:      topics.ChallengeCancelled,
			Reference: events.Reference("challenge", challenge.ID),
			Amount:    challenge.BetAmount,
			Wallets:   []events.WalletChange{wallet.Change(decimal.Zero, challenge.BetAmount.Neg())},
		})
	})
	metrics.ObserveWorkflow("challenge_cancel", err)
	if err != nil {
		zap.L().Info("challenge cancel failed", zap.Int("challengeID", id), zap.Int("userID", userID), zap.Error(err))
		return nil, err
	}

	zap.L().Info("challenge cancelled", zap.Int("challengeID", id))
	return challenge, nil
}

// SubmitScore records the caller's score. Once both sides have reported, the
// pot is distributed and the challenge completes in the same unit of work.
func (s *Service) SubmitScore(ctx context.Context, userID, id, score int) (*domain.Challenge, error) {
	if score < 0 {
		return nil, ErrInvalidScore
	}

	var challenge *domain.Challenge
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		challenge, err = s.lock(ctx, id)
		if err != nil {
			return err
		}
		if !challenge.Can(domain.ActionScore) {
			return ErrChallengeNotInPlay
		}
		if !challenge.IsParticipant(userID) {
			return ErrNotParticipant
		}

		challenge.SetScore(userID, score)
		if challenge.Scored() {
			if err := s.distributeWinnings(ctx, challenge); err != nil {
				return err
			}
			if err := challenge.Apply(domain.ActionComplete); err != nil {
				return err
			}
		} else if err := challenge.Apply(domain.ActionScore); err != nil {
			return err
		}

		return s.repo.Update(ctx, challenge)
	})
	metrics.ObserveWorkflow("challenge_score", err)
	if err != nil {
		zap.L().Info("score submission failed", zap.Int("challengeID", id), zap.Int("userID", userID), zap.Error(err))
		return nil, err
	}

	zap.L().Info("score submitted", zap.Int("challengeID", id), zap.Int("userID", userID), zap.String("status", string(challenge.Status)))
	return challenge, nil
}

// distributeWinnings moves both stakes into the pot and pays it out: the
// higher score takes it all, a tie returns each stake. Wallets are locked in
// ascending user order.
func (s *Service) distributeWinnings(ctx context.Context, challenge *domain.Challenge) error {
	stake := challenge.BetAmount
	players := []int{challenge.CreatorID, *challenge.OpponentID}
	sort.Ints(players)

	wallets := make(map[int]*domain.Wallet, len(players))
	before := make(map[int]decimal.Decimal, len(players))
	for _, userID := range players {
		wallet, err := s.wallets.Acquire(ctx, userID)
		if err != nil {
			return err
		}
		before[userID] = wallet.Balance
		wallet.Unlock(stake)
		wallet.Debit(stake)
		wallets[userID] = wallet
	}

	if winner, ok := challenge.Winner(); ok {
		wallets[winner].Credit(challenge.Pot())
	} else {
		for _, userID := range players {
			wallets[userID].Credit(stake)
		}
	}

	changes := make([]events.WalletChange, 0, len(players))
	for _, userID := range players {
		wallet := wallets[userID]
		if err := s.wallets.Save(ctx, wallet); err != nil {
			return err
		}
		changes = append(changes, wallet.Change(wallet.Balance.Sub(before[userID]), stake.Neg()))
	}

	return s.outbox.Add(ctx, topics.ChallengeSettled, events.LedgerEvent{
		Type:      topics.ChallengeSettled,
		Reference: events.Reference("challenge", challenge.ID),
		Amount:    challenge.Pot(),
		Wallets:   changes,
	})
}

func (s *Service) lock(ctx context.Context, id int) (*domain.Challenge, error) {
	challenge, err := s.repo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	return challenge, nil
}

func (s *Service) Get(ctx context.Context, id int) (*domain.Challenge, error) {
	challenge, err := s.repo.GetByID(ctx, id)
	if err != nil {
		zap.L().Error("failed to fetch challenge", zap.Error(err))
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	return challenge, nil
}

func (s *Service) List(ctx context.Context, filter domain.ChallengeFilter) ([]domain.Challenge, error) {
	challenges, err := s.repo.List(ctx, filter)
	if err != nil {
		zap.L().Error("failed to fetch challenges", zap.Error(err))
		return nil, err
	}
	return challenges, nil
}
