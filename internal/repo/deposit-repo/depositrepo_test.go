package depositrepo

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

var depositRowColumns = []string{
	"id", "user_id", "method", "amount", "crypto_name", "transaction_hash", "location", "status", "created_at", "processed_at",
}

func strPtr(s string) *string { return &s }

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()
	repo, mock := NewMock(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString("100.00")
	crypto, hash := strPtr("USDT"), strPtr("0xabc")
	query := regexp.QuoteMeta("INSERT INTO deposits (user_id, method, amount, crypto_name, transaction_hash, location, status)")

	newDeposit := func() *domain.Deposit {
		return &domain.Deposit{
			UserID:          1,
			Method:          domain.DepositCrypto,
			Amount:          amount,
			CryptoName:      crypto,
			TransactionHash: hash,
			Status:          domain.DepositPending,
		}
	}

	mock.ExpectQuery(query).
		WithArgs(1, domain.DepositCrypto, amount, crypto, hash, (*string)(nil), domain.DepositPending).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(5, now))
	deposit, err := repo.Create(ctx, newDeposit())
	require.NoError(t, err)
	assert.Equal(t, 5, deposit.ID)
	assert.Equal(t, now, deposit.CreatedAt)

	mock.ExpectQuery(query).
		WithArgs(1, domain.DepositCrypto, amount, crypto, hash, (*string)(nil), domain.DepositPending).
		WillReturnError(errors.New("database error"))
	deposit, err = repo.Create(ctx, newDeposit())
	assert.Error(t, err)
	assert.Nil(t, deposit)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repo, mock := NewMock(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		forUpdate bool
		mockSetup func(query string)
		expectErr bool
		found     bool
	}{
		{
			name: "Found",
			mockSetup: func(query string) {
				mock.ExpectQuery(query).
					WithArgs(5).
					WillReturnRows(pgxmock.NewRows(depositRowColumns).AddRow(5, 1, domain.DepositCash, "40.00",
						(*string)(nil), (*string)(nil), strPtr("Main office"), domain.DepositPending, now, (*time.Time)(nil)))
			},
			found: true,
		},
		{
			name:      "Found for update",
			forUpdate: true,
			mockSetup: func(query string) {
				mock.ExpectQuery(query).
					WithArgs(5).
					WillReturnRows(pgxmock.NewRows(depositRowColumns).AddRow(5, 1, domain.DepositCash, "40.00",
						(*string)(nil), (*string)(nil), strPtr("Main office"), domain.DepositPending, now, (*time.Time)(nil)))
			},
			found: true,
		},
		{
			name: "Not found",
			mockSetup: func(query string) {
				mock.ExpectQuery(query).WithArgs(5).WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name:      "Database error",
			forUpdate: true,
			mockSetup: func(query string) {
				mock.ExpectQuery(query).WithArgs(5).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				deposit *domain.Deposit
				err     error
			)
			if tt.forUpdate {
				tt.mockSetup(regexp.QuoteMeta("FROM deposits WHERE id = $1 FOR UPDATE"))
				deposit, err = repo.GetByIDForUpdate(ctx, 5)
			} else {
				tt.mockSetup(regexp.QuoteMeta("FROM deposits WHERE id = $1"))
				deposit, err = repo.GetByID(ctx, 5)
			}
			switch {
			case tt.expectErr:
				assert.Error(t, err)
			case tt.found:
				require.NoError(t, err)
				require.NotNil(t, deposit)
				assert.Equal(t, domain.DepositCash, deposit.Method)
				assert.Equal(t, "Main office", *deposit.Location)
				assert.Nil(t, deposit.CryptoName)
				assert.True(t, deposit.Amount.Equal(decimal.NewFromInt(40)))
			default:
				assert.NoError(t, err)
				assert.Nil(t, deposit)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo, mock := NewMock(t)
	processed := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	deposit := &domain.Deposit{ID: 5, Status: domain.DepositApproved, ProcessedAt: &processed}
	query := regexp.QuoteMeta("UPDATE deposits SET status = $1, processed_at = $2 WHERE id = $3")

	mock.ExpectExec(query).
		WithArgs(domain.DepositApproved, &processed, 5).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(t, repo.UpdateStatus(ctx, deposit))

	mock.ExpectExec(query).
		WithArgs(domain.DepositApproved, &processed, 5).
		WillReturnError(errors.New("database error"))
	assert.Error(t, repo.UpdateStatus(ctx, deposit))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByUserID(t *testing.T) {
	ctx := context.Background()
	repo, mock := NewMock(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("FROM deposits WHERE user_id = $1 ORDER BY created_at DESC")

	mock.ExpectQuery(query).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(depositRowColumns).
			AddRow(2, 1, domain.DepositCrypto, "10.00", strPtr("BTC"), strPtr("0x1"), (*string)(nil),
				domain.DepositApproved, now, &now).
			AddRow(1, 1, domain.DepositCash, "20.00", (*string)(nil), (*string)(nil), strPtr("Desk"),
				domain.DepositRejected, now, &now))
	deposits, err := repo.ListByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, deposits, 2)
	assert.Equal(t, 2, deposits[0].ID)
	assert.Equal(t, domain.DepositRejected, deposits[1].Status)

	mock.ExpectQuery(query).WithArgs(1).WillReturnError(errors.New("database error"))
	deposits, err = repo.ListByUserID(ctx, 1)
	assert.Error(t, err)
	assert.Nil(t, deposits)

	assert.NoError(t, mock.ExpectationsWereMet())
}
