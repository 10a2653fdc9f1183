package walletservice

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/betstream/internal/domain"
)

func NewMock(t *testing.T) (*Service, *MockRepo) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	service := New(repo, "USD")
	defer ctrl.Finish()
	return service, repo
}

func TestGetOrCreate(t *testing.T) {
	service, repo := NewMock(t)
	ctx := context.Background()
	existing := &domain.Wallet{ID: 1, UserID: 1, Balance: decimal.NewFromInt(100), Currency: "USD"}
	created := &domain.Wallet{ID: 2, UserID: 2, Currency: "USD"}

	tests := []struct {
		name           string
		userID         int
		prepareMock    func()
		expectedWallet *domain.Wallet
		expectedError  error
	}{
		{
			name:   "Existing wallet",
			userID: 1,
			prepareMock: func() {
				repo.EXPECT().GetByUserID(ctx, 1).Return(existing, nil)
			},
			expectedWallet: existing,
		},
		{
			name:   "Wallet created lazily",
			userID: 2,
			prepareMock: func() {
				repo.EXPECT().GetByUserID(ctx, 2).Return(nil, nil)
				repo.EXPECT().GetOrCreate(ctx, 2, "USD").Return(created, nil)
			},
			expectedWallet: created,
		},
		{
			name:   "Lookup error",
			userID: 1,
			prepareMock: func() {
				repo.EXPECT().GetByUserID(ctx, 1).Return(nil, errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
		{
			name:   "Create error",
			userID: 2,
			prepareMock: func() {
				repo.EXPECT().GetByUserID(ctx, 2).Return(nil, nil)
				repo.EXPECT().GetOrCreate(ctx, 2, "USD").Return(nil, errors.New("insert failed"))
			},
			expectedError: errors.New("insert failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			wallet, err := service.GetOrCreate(ctx, tt.userID)
			assert.Equal(t, tt.expectedError, err)
			assert.Equal(t, tt.expectedWallet, wallet)
		})
	}
}

func TestAcquire(t *testing.T) {
	service, repo := NewMock(t)
	ctx := context.Background()
	locked := &domain.Wallet{ID: 1, UserID: 1, Currency: "USD"}

	tests := []struct {
		name           string
		prepareMock    func()
		expectedWallet *domain.Wallet
		expectedError  error
	}{
		{
			name: "Row locked",
			prepareMock: func() {
				repo.EXPECT().GetByUserIDForUpdate(ctx, 1).Return(locked, nil)
			},
			expectedWallet: locked,
		},
		{
			name: "Missing wallet is created",
			prepareMock: func() {
				repo.EXPECT().GetByUserIDForUpdate(ctx, 1).Return(nil, nil)
				repo.EXPECT().GetOrCreate(ctx, 1, "USD").Return(locked, nil)
			},
			expectedWallet: locked,
		},
		{
			name: "Lock error",
			prepareMock: func() {
				repo.EXPECT().GetByUserIDForUpdate(ctx, 1).Return(nil, errors.New("lock timeout"))
			},
			expectedError: errors.New("lock timeout"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			wallet, err := service.Acquire(ctx, 1)
			assert.Equal(t, tt.expectedError, err)
			assert.Equal(t, tt.expectedWallet, wallet)
		})
	}
}

func TestSave(t *testing.T) {
	service, repo := NewMock(t)
	ctx := context.Background()

	t.Run("Consistent wallet is stored", func(t *testing.T) {
		wallet := &domain.Wallet{ID: 1, UserID: 1, Balance: decimal.NewFromInt(100), LockedBalance: decimal.NewFromInt(30)}
		repo.EXPECT().Update(ctx, wallet).Return(nil)
		assert.NoError(t, service.Save(ctx, wallet))
	})

	t.Run("Locked above balance is refused", func(t *testing.T) {
		wallet := &domain.Wallet{ID: 1, UserID: 1, Balance: decimal.NewFromInt(10), LockedBalance: decimal.NewFromInt(30)}
		err := service.Save(ctx, wallet)
		assert.ErrorIs(t, err, ErrInconsistentWallet)
	})

	t.Run("Update error", func(t *testing.T) {
		wallet := &domain.Wallet{ID: 1, UserID: 1}
		repo.EXPECT().Update(ctx, wallet).Return(errors.New("database error"))
		assert.EqualError(t, service.Save(ctx, wallet), "database error")
	})
}

func TestNewDefaultsCurrency(t *testing.T) {
	service := New(nil, "")
	assert.Equal(t, domain.DefaultCurrency, service.currency)
}
