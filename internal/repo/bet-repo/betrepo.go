package betrepo

import (
	"context"

	"go.uber.org/zap"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, bet *domain.Bet) (*domain.Bet, error) {
	query := `
		INSERT INTO bets (user_id, game_match_id, bet_type, amount, odds, potential_win, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, bet.UserID, bet.GameMatchID, bet.BetType, bet.Amount, bet.Odds,
		bet.PotentialWin, bet.Status).Scan(&bet.ID, &bet.CreatedAt)
	if err != nil {
		zap.L().Error("can't save bet", zap.Error(err))
		return nil, err
	}
	return bet, nil
}

// ListByUserID returns the bets of a user, optionally narrowed to one status.
func (r *Repository) ListByUserID(ctx context.Context, userID int, status domain.BetStatus) ([]domain.Bet, error) {
	query := `
		SELECT id, user_id, game_match_id, bet_type, amount, odds, potential_win, status, created_at
		FROM bets
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID, string(status))
	if err != nil {
		zap.L().Error("failed to fetch bets", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var bets []domain.Bet
	for rows.Next() {
		var b domain.Bet
		err := rows.Scan(&b.ID, &b.UserID, &b.GameMatchID, &b.BetType, &b.Amount, &b.Odds, &b.PotentialWin,
			&b.Status, &b.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan bet row", zap.Error(err))
			return nil, err
		}
		bets = append(bets, b)
	}
	return bets, nil
}
