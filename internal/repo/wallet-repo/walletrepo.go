package walletrepo

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

const walletColumns = `id, user_id, balance, locked_balance, currency, updated_at`

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var wallet domain.Wallet
	err := row.Scan(&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.LockedBalance, &wallet.Currency, &wallet.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *Repository) GetByUserID(ctx context.Context, userID int) (*domain.Wallet, error) {
	query := `
        SELECT ` + walletColumns + `
        FROM wallets
        WHERE user_id = $1
    `
	wallet, err := scanWallet(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("failed to get wallet", zap.Int("userID", userID), zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

// GetByUserIDForUpdate locks the wallet row until the surrounding
// transaction ends.
func (r *Repository) GetByUserIDForUpdate(ctx context.Context, userID int) (*domain.Wallet, error) {
	query := `
        SELECT ` + walletColumns + `
        FROM wallets
        WHERE user_id = $1
        FOR UPDATE
    `
	wallet, err := scanWallet(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("failed to lock wallet", zap.Int("userID", userID), zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

// GetOrCreate returns the wallet of userID, creating an empty one on first
// use. The no-op update makes the statement return the existing row and lock it.
func (r *Repository) GetOrCreate(ctx context.Context, userID int, currency string) (*domain.Wallet, error) {
	query := `
        INSERT INTO wallets (user_id, balance, locked_balance, currency)
        VALUES ($1, 0, 0, $2)
        ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
        RETURNING ` + walletColumns + `
    `
	wallet, err := scanWallet(r.db.QueryRow(ctx, query, userID, currency))
	if err != nil {
		zap.L().Error("failed to create wallet", zap.Int("userID", userID), zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

func (r *Repository) Update(ctx context.Context, wallet *domain.Wallet) error {
	query := `
        UPDATE wallets
        SET balance = $1, locked_balance = $2, updated_at = NOW()
        WHERE id = $3
    `
	tag, err := r.db.Exec(ctx, query, wallet.Balance, wallet.LockedBalance, wallet.ID)
	if err != nil {
		zap.L().Error("failed to update wallet", zap.Int("walletID", wallet.ID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindMismatches compares every wallet with the obligations that should be
// holding its funds: open challenges it created, accepted or in-progress
// challenges on either side, and pending withdrawals.
func (r *Repository) FindMismatches(ctx context.Context) ([]domain.WalletMismatch, error) {
	query := `
        WITH obligations AS (
            SELECT creator_id AS user_id, bet_amount AS amount
            FROM challenges
            WHERE status IN ('open', 'accepted', 'in_progress')
            UNION ALL
            SELECT opponent_id, bet_amount
            FROM challenges
            WHERE status IN ('accepted', 'in_progress') AND opponent_id IS NOT NULL
            UNION ALL
            SELECT user_id, amount
            FROM withdrawals
            WHERE status = 'pending'
        ), expected AS (
            SELECT user_id, SUM(amount) AS locked
            FROM obligations
            GROUP BY user_id
        )
        SELECT w.user_id, w.balance, w.locked_balance, COALESCE(e.locked, 0)
        FROM wallets w
        LEFT JOIN expected e ON e.user_id = w.user_id
        WHERE w.locked_balance <> COALESCE(e.locked, 0)
            OR w.locked_balance > w.balance
            OR w.locked_balance < 0
        ORDER BY w.user_id
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("failed to reconcile wallets", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var mismatches []domain.WalletMismatch
	for rows.Next() {
		var m domain.WalletMismatch
		if err := rows.Scan(&m.UserID, &m.Balance, &m.LockedBalance, &m.ExpectedLocked); err != nil {
			zap.L().Error("failed to scan wallet mismatch", zap.Error(err))
			return nil, err
		}
		mismatches = append(mismatches, m)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("failed to iterate wallet mismatches", zap.Error(err))
		return nil, err
	}
	return mismatches, nil
}
