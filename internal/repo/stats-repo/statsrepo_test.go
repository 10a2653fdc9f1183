package statsrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := New(mock)
	query := regexp.QuoteMeta("(SELECT COUNT(*) FROM users)")

	mock.ExpectQuery(query).
		WillReturnRows(pgxmock.NewRows([]string{"users", "challenges", "deposits", "withdrawals"}).
			AddRow(10, 4, "1500.00", "300.00"))
	stats, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Users)
	assert.Equal(t, 4, stats.Challenges)
	assert.True(t, stats.ApprovedDeposits.Equal(decimal.NewFromInt(1500)))
	assert.True(t, stats.ApprovedWithdrawals.Equal(decimal.NewFromInt(300)))

	mock.ExpectQuery(query).WillReturnError(errors.New("database error"))
	stats, err = repo.Get(context.Background())
	assert.Error(t, err)
	assert.Nil(t, stats)

	assert.NoError(t, mock.ExpectationsWereMet())
}
