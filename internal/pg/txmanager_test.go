package pg

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func NewMock(t *testing.T) (*Manager, *DB, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	return NewTXManager(mockDB), New(mockDB), mockDB
}

func TestManager_Begin(t *testing.T) {
	ctx := context.Background()
	query := `UPDATE wallets SET balance = $1 WHERE user_id = $2`

	tests := []struct {
		name        string
		prepareMock func(mock pgxmock.PgxPoolIface)
		fn          func(db *DB) func(ctx context.Context) error
		expectedErr string
	}{
		{
			name: "commit on success",
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(query)).
					WithArgs(10, 1).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectCommit()
			},
			fn: func(db *DB) func(ctx context.Context) error {
				return func(ctx context.Context) error {
					_, err := db.Exec(ctx, query, 10, 1)
					return err
				}
			},
		},
		{
			name: "rollback on error",
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(query)).
					WithArgs(10, 1).
					WillReturnError(errors.New("constraint violation"))
				mock.ExpectRollback()
			},
			fn: func(db *DB) func(ctx context.Context) error {
				return func(ctx context.Context) error {
					_, err := db.Exec(ctx, query, 10, 1)
					return err
				}
			},
			expectedErr: "constraint violation",
		},
		{
			name: "begin fails",
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin().WillReturnError(errors.New("connection refused"))
			},
			fn: func(db *DB) func(ctx context.Context) error {
				return func(ctx context.Context) error { return nil }
			},
			expectedErr: "begin transaction: connection refused",
		},
		{
			name: "commit fails",
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))
			},
			fn: func(db *DB) func(ctx context.Context) error {
				return func(ctx context.Context) error { return nil }
			},
			expectedErr: "commit transaction: serialization failure",
		},
		{
			name: "nested begin joins outer transaction",
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(query)).
					WithArgs(10, 1).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectCommit()
			},
			fn: func(db *DB) func(ctx context.Context) error {
				return func(ctx context.Context) error {
					tm := &Manager{}
					return tm.Begin(ctx, func(ctx context.Context) error {
						_, err := db.Exec(ctx, query, 10, 1)
						return err
					})
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, db, mock := NewMock(t)
			tt.prepareMock(mock)

			err := tm.Begin(ctx, tt.fn(db))
			if tt.expectedErr != "" {
				assert.EqualError(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestManager_BeginRollsBackOnPanic(t *testing.T) {
	tm, _, mock := NewMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = tm.Begin(context.Background(), func(ctx context.Context) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_QueryRowWithoutTransaction(t *testing.T) {
	_, db, mock := NewMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1`)).
		WillReturnRows(pgxmock.NewRows([]string{"n"}).AddRow(1))

	var n int
	require.NoError(t, db.QueryRow(context.Background(), `SELECT 1`).Scan(&n))
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
