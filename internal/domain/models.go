package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           int       `db:"id"`
	Login        string    `db:"login"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

type DepositMethod string

const (
	DepositCrypto DepositMethod = "crypto"
	DepositCash   DepositMethod = "cash"
)

type DepositStatus string

const (
	DepositPending  DepositStatus = "pending"
	DepositApproved DepositStatus = "approved"
	DepositRejected DepositStatus = "rejected"
)

type Deposit struct {
	ID              int             `db:"id"`
	UserID          int             `db:"user_id"`
	Method          DepositMethod   `db:"method"`
	Amount          decimal.Decimal `db:"amount"`
	CryptoName      *string         `db:"crypto_name"`
	TransactionHash *string         `db:"transaction_hash"`
	Location        *string         `db:"location"`
	Status          DepositStatus   `db:"status"`
	CreatedAt       time.Time       `db:"created_at"`
	ProcessedAt     *time.Time      `db:"processed_at"`
}

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

type Withdrawal struct {
	ID          int              `db:"id"`
	UserID      int              `db:"user_id"`
	Amount      decimal.Decimal  `db:"amount"`
	Status      WithdrawalStatus `db:"status"`
	CreatedAt   time.Time        `db:"created_at"`
	ProcessedAt *time.Time       `db:"processed_at"`
}

type ChallengeStatus string

const (
	ChallengeOpen       ChallengeStatus = "open"
	ChallengeAccepted   ChallengeStatus = "accepted"
	ChallengeInProgress ChallengeStatus = "in_progress"
	ChallengeCompleted  ChallengeStatus = "completed"
	ChallengeCancelled  ChallengeStatus = "cancelled"
)

type Challenge struct {
	ID            int             `db:"id"`
	CreatorID     int             `db:"creator_id"`
	OpponentID    *int            `db:"opponent_id"`
	Game          string          `db:"game"`
	BetAmount     decimal.Decimal `db:"bet_amount"`
	Status        ChallengeStatus `db:"status"`
	CreatorScore  *int            `db:"creator_score"`
	OpponentScore *int            `db:"opponent_score"`
	ExpiresAt     *time.Time      `db:"expires_at"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (c *Challenge) IsCreator(userID int) bool {
	return c.CreatorID == userID
}

func (c *Challenge) IsOpponent(userID int) bool {
	return c.OpponentID != nil && *c.OpponentID == userID
}

func (c *Challenge) IsParticipant(userID int) bool {
	return c.IsCreator(userID) || c.IsOpponent(userID)
}

// Expired reports whether the deadline has passed. Challenges without a
// deadline never expire.
func (c *Challenge) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// SetScore records the score of the participant userID.
func (c *Challenge) SetScore(userID, score int) {
	if c.IsCreator(userID) {
		c.CreatorScore = &score
		return
	}
	c.OpponentScore = &score
}

func (c *Challenge) Scored() bool {
	return c.CreatorScore != nil && c.OpponentScore != nil
}

// Pot is the combined stake of both sides.
func (c *Challenge) Pot() decimal.Decimal {
	return c.BetAmount.Mul(decimal.NewFromInt(2))
}

// Winner returns the user with the strictly higher score, or false on a tie.
// It must only be called once both scores are set.
func (c *Challenge) Winner() (int, bool) {
	switch {
	case *c.CreatorScore > *c.OpponentScore:
		return c.CreatorID, true
	case *c.OpponentScore > *c.CreatorScore:
		return *c.OpponentID, true
	default:
		return 0, false
	}
}

type ChallengeFilter struct {
	Status   ChallengeStatus
	Game     string
	UserID   int
	OpenOnly bool
}

type BetType string

const (
	BetTeam1Win BetType = "team1_win"
	BetDraw     BetType = "draw"
	BetTeam2Win BetType = "team2_win"
)

type BetStatus string

const (
	BetPending BetStatus = "pending"
	BetWon     BetStatus = "won"
	BetLost    BetStatus = "lost"
)

type Bet struct {
	ID           int             `db:"id"`
	UserID       int             `db:"user_id"`
	GameMatchID  int             `db:"game_match_id"`
	BetType      BetType         `db:"bet_type"`
	Amount       decimal.Decimal `db:"amount"`
	Odds         decimal.Decimal `db:"odds"`
	PotentialWin decimal.Decimal `db:"potential_win"`
	Status       BetStatus       `db:"status"`
	CreatedAt    time.Time       `db:"created_at"`
}

type MatchStatus string

const (
	MatchUpcoming  MatchStatus = "upcoming"
	MatchLive      MatchStatus = "live"
	MatchFinished  MatchStatus = "finished"
	MatchCancelled MatchStatus = "cancelled"
)

// GameMatch is the published state of a match in the external catalog.
type GameMatch struct {
	ID        int             `json:"id"`
	Team1     string          `json:"team1"`
	Team2     string          `json:"team2"`
	Status    MatchStatus     `json:"status"`
	Team1Odds decimal.Decimal `json:"team1_odds"`
	DrawOdds  decimal.Decimal `json:"draw_odds"`
	Team2Odds decimal.Decimal `json:"team2_odds"`
	StartTime time.Time       `json:"start_time"`
}

func (m *GameMatch) OpenForBetting() bool {
	return m.Status == MatchUpcoming || m.Status == MatchLive
}

func (m *GameMatch) OddsFor(t BetType) (decimal.Decimal, bool) {
	switch t {
	case BetTeam1Win:
		return m.Team1Odds, true
	case BetDraw:
		return m.DrawOdds, true
	case BetTeam2Win:
		return m.Team2Odds, true
	}
	return decimal.Zero, false
}

type OutboxEvent struct {
	ID        int64      `db:"id"`
	EventID   string     `db:"event_id"`
	Topic     string     `db:"topic"`
	Key       string     `db:"event_key"`
	Payload   []byte     `db:"payload"`
	CreatedAt time.Time  `db:"created_at"`
	SentAt    *time.Time `db:"sent_at"`
}

type Stats struct {
	Users               int             `db:"users"`
	Challenges          int             `db:"challenges"`
	ApprovedDeposits    decimal.Decimal `db:"approved_deposits"`
	ApprovedWithdrawals decimal.Decimal `db:"approved_withdrawals"`
}

// WalletMismatch is a wallet whose locked funds differ from its open obligations.
type WalletMismatch struct {
	UserID         int
	Balance        decimal.Decimal
	LockedBalance  decimal.Decimal
	ExpectedLocked decimal.Decimal
}
