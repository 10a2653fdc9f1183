package depositrepo

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

const depositColumns = `id, user_id, method, amount, crypto_name, transaction_hash, location, status, created_at, processed_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanDeposit(row scanner) (*domain.Deposit, error) {
	var d domain.Deposit
	err := row.Scan(&d.ID, &d.UserID, &d.Method, &d.Amount, &d.CryptoName, &d.TransactionHash,
		&d.Location, &d.Status, &d.CreatedAt, &d.ProcessedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) Create(ctx context.Context, deposit *domain.Deposit) (*domain.Deposit, error) {
	query := `
		INSERT INTO deposits (user_id, method, amount, crypto_name, transaction_hash, location, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, deposit.UserID, deposit.Method, deposit.Amount, deposit.CryptoName,
		deposit.TransactionHash, deposit.Location, deposit.Status).Scan(&deposit.ID, &deposit.CreatedAt)
	if err != nil {
		zap.L().Error("can't save deposit", zap.Error(err))
		return nil, err
	}
	return deposit, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*domain.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE id = $1`
	deposit, err := scanDeposit(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find deposit", zap.Int("depositID", id), zap.Error(err))
		return nil, err
	}
	return deposit, nil
}

func (r *Repository) GetByIDForUpdate(ctx context.Context, id int) (*domain.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE id = $1 FOR UPDATE`
	deposit, err := scanDeposit(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't lock deposit", zap.Int("depositID", id), zap.Error(err))
		return nil, err
	}
	return deposit, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, deposit *domain.Deposit) error {
	query := `
		UPDATE deposits
		SET status = $1, processed_at = $2
		WHERE id = $3
	`
	_, err := r.db.Exec(ctx, query, deposit.Status, deposit.ProcessedAt, deposit.ID)
	if err != nil {
		zap.L().Error("failed to update deposit", zap.Int("depositID", deposit.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) ListByUserID(ctx context.Context, userID int) ([]domain.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("failed to fetch deposits", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var deposits []domain.Deposit
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			zap.L().Error("failed to scan deposit row", zap.Error(err))
			return nil, err
		}
		deposits = append(deposits, *d)
	}
	return deposits, nil
}
