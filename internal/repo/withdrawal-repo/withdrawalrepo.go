package withdrawalrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
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

func (r *Repository) CreateWithdrawal(ctx context.Context, withdrawal *domain.Withdrawal) (*domain.Withdrawal, error) {
	query := `
		INSERT INTO withdrawals (user_id, amount, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, withdrawal.UserID, withdrawal.Amount, withdrawal.Status).
		Scan(&withdrawal.ID, &withdrawal.CreatedAt)
	if err != nil {
		zap.L().Error("can't save withdrawal", zap.Error(err))
		return nil, err
	}
	return withdrawal, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*domain.Withdrawal, error) {
	query := `
		SELECT id, user_id, amount, status, created_at, processed_at
		FROM withdrawals
		WHERE id = $1
	`
	var wd domain.Withdrawal
	err := r.db.QueryRow(ctx, query, id).Scan(&wd.ID, &wd.UserID, &wd.Amount, &wd.Status, &wd.CreatedAt, &wd.ProcessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find withdrawal", zap.Int("withdrawalID", id), zap.Error(err))
		return nil, err
	}
	return &wd, nil
}

func (r *Repository) GetByIDForUpdate(ctx context.Context, id int) (*domain.Withdrawal, error) {
	query := `
		SELECT id, user_id, amount, status, created_at, processed_at
		FROM withdrawals
		WHERE id = $1
		FOR UPDATE
	`
	var wd domain.Withdrawal
	err := r.db.QueryRow(ctx, query, id).Scan(&wd.ID, &wd.UserID, &wd.Amount, &wd.Status, &wd.CreatedAt, &wd.ProcessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't lock withdrawal", zap.Int("withdrawalID", id), zap.Error(err))
		return nil, err
	}
	return &wd, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, withdrawal *domain.Withdrawal) error {
	query := `
		UPDATE withdrawals
		SET status = $1, processed_at = $2
		WHERE id = $3
	`
	_, err := r.db.Exec(ctx, query, withdrawal.Status, withdrawal.ProcessedAt, withdrawal.ID)
	if err != nil {
		zap.L().Error("failed to update withdrawal", zap.Int("withdrawalID", withdrawal.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) GetWithdrawalsByUserID(ctx context.Context, userID int) ([]domain.Withdrawal, error) {
	query := `
        SELECT id, user_id, amount, status, created_at, processed_at
        FROM withdrawals
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("failed to fetch withdrawals", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var withdrawals []domain.Withdrawal
	for rows.Next() {
		var wd domain.Withdrawal
		err := rows.Scan(&wd.ID, &wd.UserID, &wd.Amount, &wd.Status, &wd.CreatedAt, &wd.ProcessedAt)
		if err != nil {
			zap.L().Error("failed to scan withdrawal row", zap.Error(err))
			return nil, err
		}
		withdrawals = append(withdrawals, wd)
	}

	return withdrawals, nil
}
