package walletrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlebRadaev/betstream/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	return New(mockDB), mockDB
}

var walletRowColumns = []string{"id", "user_id", "balance", "locked_balance", "currency", "updated_at"}

func TestRepository_GetByUserID(t *testing.T) {
	ctx := context.Background()
	repo, mock := NewMock(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("FROM wallets WHERE user_id = $1")

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		found     bool
	}{
		{
			name: "Wallet found",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1).
					WillReturnRows(pgxmock.NewRows(walletRowColumns).AddRow(10, 1, "100.00", "20.00", "USD", now))
			},
			found: true,
		},
		{
			name: "Wallet not found",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(1).WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(1).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			wallet, err := repo.GetByUserID(ctx, 1)
			switch {
			case tt.expectErr:
				assert.Error(t, err)
			case tt.found:
				require.NoError(t, err)
				require.NotNil(t, wallet)
				assert.Equal(t, 10, wallet.ID)
				assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(100)))
				assert.True(t, wallet.LockedBalance.Equal(decimal.NewFromInt(20)))
				assert.Equal(t, "USD", wallet.Currency)
			default:
				assert.NoError(t, err)
				assert.Nil(t, wallet)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_GetByUserIDForUpdate(t *testing.T) {
	ctx := context.Background()
	repo, mock := NewMock(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("FROM wallets WHERE user_id = $1 FOR UPDATE")

	mock.ExpectQuery(query).
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows(walletRowColumns).AddRow(11, 2, "5.00", "0", "USD", now))
	wallet, err := repo.GetByUserIDForUpdate(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, wallet)
	assert.Equal(t, 2, wallet.UserID)

	mock.ExpectQuery(query).WithArgs(3).WillReturnError(pgx.ErrNoRows)
	wallet, err = repo.GetByUserIDForUpdate(ctx, 3)
	assert.NoError(t, err)
	assert.Nil(t, wallet)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	repo, mock := NewMock(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("INSERT INTO wallets (user_id, balance, locked_balance, currency)")

	mock.ExpectQuery(query).
		WithArgs(4, "EUR").
		WillReturnRows(pgxmock.NewRows(walletRowColumns).AddRow(12, 4, "0", "0", "EUR", now))
	wallet, err := repo.GetOrCreate(ctx, 4, "EUR")
	require.NoError(t, err)
	assert.Equal(t, 12, wallet.ID)
	assert.True(t, wallet.Balance.IsZero())
	assert.Equal(t, "EUR", wallet.Currency)

	mock.ExpectQuery(query).
		WithArgs(4, "EUR").
		WillReturnError(errors.New("database error"))
	wallet, err = repo.GetOrCreate(ctx, 4, "EUR")
	assert.Error(t, err)
	assert.Nil(t, wallet)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo, mock := NewMock(t)
	balance := decimal.RequireFromString("130.00")
	locked := decimal.Zero
	wallet := &domain.Wallet{ID: 10, Balance: balance, LockedBalance: locked}
	query := regexp.QuoteMeta("UPDATE wallets SET balance = $1, locked_balance = $2, updated_at = NOW() WHERE id = $3")

	tests := []struct {
		name        string
		mockSetup   func()
		expectedErr error
		anyErr      bool
	}{
		{
			name: "Updated",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(balance, locked, 10).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "Wallet missing",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(balance, locked, 10).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			expectedErr: domain.ErrNotFound,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(balance, locked, 10).
					WillReturnError(errors.New("database error"))
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.Update(ctx, wallet)
			switch {
			case tt.expectedErr != nil:
				assert.ErrorIs(t, err, tt.expectedErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_FindMismatches(t *testing.T) {
	ctx := context.Background()
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta("WHERE w.locked_balance <> COALESCE(e.locked, 0)")

	mock.ExpectQuery(query).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "balance", "locked_balance", "locked"}).
			AddRow(1, "100.00", "30.00", "20.00").
			AddRow(5, "10.00", "15.00", "15.00"))
	mismatches, err := repo.FindMismatches(ctx)
	require.NoError(t, err)
	require.Len(t, mismatches, 2)
	assert.Equal(t, 1, mismatches[0].UserID)
	assert.True(t, mismatches[0].ExpectedLocked.Equal(decimal.NewFromInt(20)))
	assert.True(t, mismatches[1].LockedBalance.GreaterThan(mismatches[1].Balance))

	mock.ExpectQuery(query).WillReturnError(errors.New("database error"))
	mismatches, err = repo.FindMismatches(ctx)
	assert.Error(t, err)
	assert.Nil(t, mismatches)

	assert.NoError(t, mock.ExpectationsWereMet())
}
