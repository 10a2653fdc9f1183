package statsrepo

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

func (r *Repository) Get(ctx context.Context) (*domain.Stats, error) {
	query := `
        SELECT
            (SELECT COUNT(*) FROM users),
            (SELECT COUNT(*) FROM challenges),
            (SELECT COALESCE(SUM(amount), 0) FROM deposits WHERE status = 'approved'),
            (SELECT COALESCE(SUM(amount), 0) FROM withdrawals WHERE status = 'approved')
    `
	var stats domain.Stats
	err := r.db.QueryRow(ctx, query).Scan(&stats.Users, &stats.Challenges, &stats.ApprovedDeposits, &stats.ApprovedWithdrawals)
	if err != nil {
		zap.L().Error("failed to get stats", zap.Error(err))
		return nil, err
	}
	return &stats, nil
}
