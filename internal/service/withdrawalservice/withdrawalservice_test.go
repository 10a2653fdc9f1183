package withdrawalservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/internal/pg"
	"github.com/GlebRadaev/betstream/internal/service/ledger"
	"github.com/GlebRadaev/betstream/pkg/contracts/events"
	"github.com/GlebRadaev/betstream/pkg/contracts/topics"
)

type mocks struct {
	repo      *MockRepo
	wallets   *ledger.MockWallets
	outbox    *ledger.MockOutbox
	txManager *pg.MockTXManager
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		repo:      NewMockRepo(ctrl),
		wallets:   ledger.NewMockWallets(ctrl),
		outbox:    ledger.NewMockOutbox(ctrl),
		txManager: pg.NewMockTXManager(ctrl),
	}
	service := New(m.repo, m.wallets, m.outbox, m.txManager)
	service.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return service, m
}

func (m *mocks) inTx() {
	m.txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func wallet(balance, locked int64) *domain.Wallet {
	return &domain.Wallet{ID: 1, UserID: 1, Balance: decimal.NewFromInt(balance), LockedBalance: decimal.NewFromInt(locked)}
}

func TestSubmit(t *testing.T) {
	service, m := NewMock(t)
	ctx := context.Background()

	tests := []struct {
		name           string
		amount         decimal.Decimal
		prepareMock    func()
		expectedError  error
		expectedLocked decimal.Decimal
	}{
		{
			name:   "Reserves funds",
			amount: decimal.NewFromInt(40),
			prepareMock: func() {
				w := wallet(100, 20)
				m.inTx()
				m.wallets.EXPECT().Acquire(ctx, 1).Return(w, nil)
				m.wallets.EXPECT().Save(ctx, w).DoAndReturn(func(_ context.Context, w *domain.Wallet) error {
					assert.True(t, w.Balance.Equal(decimal.NewFromInt(100)))
					assert.True(t, w.LockedBalance.Equal(decimal.NewFromInt(60)))
					return nil
				})
				m.repo.EXPECT().CreateWithdrawal(ctx, gomock.Any()).
					DoAndReturn(func(_ context.Context, wd *domain.Withdrawal) (*domain.Withdrawal, error) {
						assert.Equal(t, domain.WithdrawalPending, wd.Status)
						wd.ID = 5
						return wd, nil
					})
				m.outbox.EXPECT().Add(ctx, topics.WithdrawalCreated, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, event events.LedgerEvent) error {
						assert.Equal(t, "withdrawal:5", event.Reference)
						assert.True(t, event.Wallets[0].LockedDelta.Equal(decimal.NewFromInt(40)))
						return nil
					})
			},
		},
		{
			name:   "Exactly the available amount",
			amount: decimal.NewFromInt(80),
			prepareMock: func() {
				w := wallet(100, 20)
				m.inTx()
				m.wallets.EXPECT().Acquire(ctx, 1).Return(w, nil)
				m.wallets.EXPECT().Save(ctx, w).Return(nil)
				m.repo.EXPECT().CreateWithdrawal(ctx, gomock.Any()).
					DoAndReturn(func(_ context.Context, wd *domain.Withdrawal) (*domain.Withdrawal, error) {
						return wd, nil
					})
				m.outbox.EXPECT().Add(ctx, topics.WithdrawalCreated, gomock.Any()).Return(nil)
			},
		},
		{
			name:   "Locked funds cannot be withdrawn",
			amount: decimal.RequireFromString("80.01"),
			prepareMock: func() {
				m.inTx()
				m.wallets.EXPECT().Acquire(ctx, 1).Return(wallet(100, 20), nil)
			},
			expectedError: ErrInsufficientBalance,
		},
		{
			name:          "Zero amount",
			amount:        decimal.Zero,
			prepareMock:   func() {},
			expectedError: ErrInvalidAmount,
		},
		{
			name:          "Above maximum",
			amount:        decimal.NewFromInt(10001),
			prepareMock:   func() {},
			expectedError: ErrInvalidAmount,
		},
		{
			name:          "Sub-cent amount",
			amount:        decimal.RequireFromString("20.005"),
			prepareMock:   func() {},
			expectedError: domain.ErrAmountPrecision,
		},
		{
			name:   "Repository error",
			amount: decimal.NewFromInt(10),
			prepareMock: func() {
				w := wallet(100, 0)
				m.inTx()
				m.wallets.EXPECT().Acquire(ctx, 1).Return(w, nil)
				m.wallets.EXPECT().Save(ctx, w).Return(nil)
				m.repo.EXPECT().CreateWithdrawal(ctx, gomock.Any()).Return(nil, errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			withdrawal, err := service.Submit(ctx, 1, tt.amount)
			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, withdrawal)
				return
			}
			require.NoError(t, err)
			assert.True(t, withdrawal.Amount.Equal(tt.amount))
		})
	}
}

func TestApprove(t *testing.T) {
	service, m := NewMock(t)
	ctx := context.Background()

	t.Run("Debits reserved funds", func(t *testing.T) {
		withdrawal := &domain.Withdrawal{ID: 5, UserID: 1, Amount: decimal.NewFromInt(40), Status: domain.WithdrawalPending}
		w := wallet(100, 60)

		m.inTx()
		m.repo.EXPECT().GetByIDForUpdate(ctx, 5).Return(withdrawal, nil)
		m.repo.EXPECT().UpdateStatus(ctx, withdrawal).Return(nil)
		m.wallets.EXPECT().Acquire(ctx, 1).Return(w, nil)
		m.wallets.EXPECT().Save(ctx, w).Return(nil)
		m.outbox.EXPECT().Add(ctx, topics.WithdrawalApproved, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, event events.LedgerEvent) error {
				assert.True(t, event.Wallets[0].Delta.Equal(decimal.NewFromInt(-40)))
				assert.True(t, event.Wallets[0].LockedDelta.Equal(decimal.NewFromInt(-40)))
				return nil
			})

		approved, err := service.Approve(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, domain.WithdrawalApproved, approved.Status)
		assert.NotNil(t, approved.ProcessedAt)
		assert.True(t, w.Balance.Equal(decimal.NewFromInt(60)))
		assert.True(t, w.LockedBalance.Equal(decimal.NewFromInt(20)))
	})

	t.Run("Not found", func(t *testing.T) {
		m.inTx()
		m.repo.EXPECT().GetByIDForUpdate(ctx, 6).Return(nil, nil)

		_, err := service.Approve(ctx, 6)
		assert.Equal(t, ErrWithdrawalNotFound, err)
	})

	t.Run("Already approved", func(t *testing.T) {
		m.inTx()
		m.repo.EXPECT().GetByIDForUpdate(ctx, 7).Return(&domain.Withdrawal{ID: 7, Status: domain.WithdrawalApproved}, nil)

		_, err := service.Approve(ctx, 7)
		assert.Equal(t, ErrWithdrawalNotPending, err)
	})
}

func TestReject(t *testing.T) {
	service, m := NewMock(t)
	ctx := context.Background()

	withdrawal := &domain.Withdrawal{ID: 5, UserID: 1, Amount: decimal.NewFromInt(40), Status: domain.WithdrawalPending}
	w := wallet(100, 40)

	m.inTx()
	m.repo.EXPECT().GetByIDForUpdate(ctx, 5).Return(withdrawal, nil)
	m.repo.EXPECT().UpdateStatus(ctx, withdrawal).Return(nil)
	m.wallets.EXPECT().Acquire(ctx, 1).Return(w, nil)
	m.wallets.EXPECT().Save(ctx, w).Return(nil)
	m.outbox.EXPECT().Add(ctx, topics.WithdrawalRejected, gomock.Any()).Return(nil)

	rejected, err := service.Reject(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalRejected, rejected.Status)
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(100)))
	assert.True(t, w.LockedBalance.IsZero())
}

func TestList(t *testing.T) {
	service, m := NewMock(t)
	ctx := context.Background()
	withdrawals := []domain.Withdrawal{{ID: 1, UserID: 1}}

	m.repo.EXPECT().GetWithdrawalsByUserID(ctx, 1).Return(withdrawals, nil)
	got, err := service.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, withdrawals, got)
}

func TestGet(t *testing.T) {
	service, m := NewMock(t)
	ctx := context.Background()
	withdrawal := &domain.Withdrawal{ID: 1, UserID: 1, Status: domain.WithdrawalPending}

	tests := []struct {
		name          string
		userID        int
		prepareMock   func()
		expected      *domain.Withdrawal
		expectedError error
	}{
		{
			name:   "Own withdrawal",
			userID: 1,
			prepareMock: func() {
				m.repo.EXPECT().GetByID(ctx, 1).Return(withdrawal, nil)
			},
			expected: withdrawal,
		},
		{
			name:   "Foreign withdrawal is hidden",
			userID: 2,
			prepareMock: func() {
				m.repo.EXPECT().GetByID(ctx, 1).Return(withdrawal, nil)
			},
			expectedError: ErrWithdrawalNotFound,
		},
		{
			name:   "Missing withdrawal",
			userID: 1,
			prepareMock: func() {
				m.repo.EXPECT().GetByID(ctx, 1).Return(nil, nil)
			},
			expectedError: ErrWithdrawalNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			got, err := service.Get(ctx, tt.userID, 1)
			assert.Equal(t, tt.expectedError, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
