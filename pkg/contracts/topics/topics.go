package topics

const (
	// Wallet money movements
	DepositApproved    = "deposit_approved"
	DepositRejected    = "deposit_rejected"
	WithdrawalCreated  = "withdrawal_created"
	WithdrawalApproved = "withdrawal_approved"
	WithdrawalRejected = "withdrawal_rejected"

	// Challenges
	ChallengeCreated   = "challenge_created"
	ChallengeAccepted  = "challenge_accepted"
	ChallengeCancelled = "challenge_cancelled"
	ChallengeSettled   = "challenge_settled"

	// Bets
	BetPlaced = "bet_placed"
)
