package authservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/internal/pg"
	"github.com/GlebRadaev/betstream/pkg/auth"
)

type mocks struct {
	repo      *MockRepo
	wallets   *MockWallets
	hasher    *auth.MockHashServiceInterface
	jwt       *auth.MockJWTServiceInterface
	txManager *pg.MockTXManager
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		repo:      NewMockRepo(ctrl),
		wallets:   NewMockWallets(ctrl),
		hasher:    auth.NewMockHashServiceInterface(ctrl),
		jwt:       auth.NewMockJWTServiceInterface(ctrl),
		txManager: pg.NewMockTXManager(ctrl),
	}
	service := New(m.repo, m.wallets, m.hasher, m.jwt, m.txManager)
	defer ctrl.Finish()
	return service, m
}

func (m *mocks) inTx() {
	m.txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func TestRegister(t *testing.T) {
	service, m := NewMock(t)

	tests := []struct {
		name          string
		login         string
		password      string
		prepareMock   func()
		expectedUser  *domain.User
		expectedError error
	}{
		{
			name:     "Successful registration",
			login:    "testuser",
			password: "testpassword",
			prepareMock: func() {
				m.inTx()
				m.repo.EXPECT().FindByLogin(context.Background(), "testuser").Return(nil, nil)
				m.hasher.EXPECT().HashPassword("testpassword").Return("hashedpassword", nil)
				m.repo.EXPECT().Create(context.Background(), gomock.Any()).DoAndReturn(func(ctx context.Context, user *domain.User) (*domain.User, error) {
					user.ID = 1
					return user, nil
				})
				m.wallets.EXPECT().GetOrCreate(context.Background(), 1).Return(&domain.Wallet{UserID: 1}, nil)
			},
			expectedUser: &domain.User{
				ID:           1,
				Login:        "testuser",
				PasswordHash: "hashedpassword",
				Role:         domain.RoleUser,
			},
		},
		{
			name:     "User already exists",
			login:    "testuser",
			password: "testpassword",
			prepareMock: func() {
				m.inTx()
				m.repo.EXPECT().FindByLogin(context.Background(), "testuser").Return(&domain.User{Login: "testuser"}, nil)
			},
			expectedError: ErrLoginTaken,
		},
		{
			name:     "Error finding user",
			login:    "testuser",
			password: "testpassword",
			prepareMock: func() {
				m.inTx()
				m.repo.EXPECT().FindByLogin(context.Background(), "testuser").Return(nil, errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
		{
			name:     "Error hashing password",
			login:    "testuser",
			password: "testpassword",
			prepareMock: func() {
				m.inTx()
				m.repo.EXPECT().FindByLogin(context.Background(), "testuser").Return(nil, nil)
				m.hasher.EXPECT().HashPassword("testpassword").Return("", errors.New("hashing error"))
			},
			expectedError: errors.New("hashing error"),
		},
		{
			name:     "Error creating user",
			login:    "testuser",
			password: "testpassword",
			prepareMock: func() {
				m.inTx()
				m.repo.EXPECT().FindByLogin(context.Background(), "testuser").Return(nil, nil)
				m.hasher.EXPECT().HashPassword("testpassword").Return("hashedpassword", nil)
				m.repo.EXPECT().Create(context.Background(), gomock.Any()).Return(nil, errors.New("creation failed"))
			},
			expectedError: errors.New("creation failed"),
		},
		{
			name:     "Error creating wallet",
			login:    "testuser",
			password: "testpassword",
			prepareMock: func() {
				m.inTx()
				m.repo.EXPECT().FindByLogin(context.Background(), "testuser").Return(nil, nil)
				m.hasher.EXPECT().HashPassword("testpassword").Return("hashedpassword", nil)
				m.repo.EXPECT().Create(context.Background(), gomock.Any()).DoAndReturn(func(ctx context.Context, user *domain.User) (*domain.User, error) {
					user.ID = 1
					return user, nil
				})
				m.wallets.EXPECT().GetOrCreate(context.Background(), 1).Return(nil, errors.New("wallet creation failed"))
			},
			expectedError: errors.New("wallet creation failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			user, err := service.Register(context.Background(), tt.login, tt.password)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedUser, user)
			}
		})
	}
}

func TestCreateUser(t *testing.T) {
	service, m := NewMock(t)

	t.Run("Admin account", func(t *testing.T) {
		m.inTx()
		m.repo.EXPECT().FindByLogin(context.Background(), "root").Return(nil, nil)
		m.hasher.EXPECT().HashPassword("rootpassword").Return("hash", nil)
		m.repo.EXPECT().Create(context.Background(), gomock.Any()).DoAndReturn(func(ctx context.Context, user *domain.User) (*domain.User, error) {
			user.ID = 9
			return user, nil
		})
		m.wallets.EXPECT().GetOrCreate(context.Background(), 9).Return(&domain.Wallet{UserID: 9}, nil)

		user, err := service.CreateUser(context.Background(), " root ", "rootpassword", domain.RoleAdmin)
		assert.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, user.Role)
		assert.Equal(t, "root", user.Login)
	})

	t.Run("Unknown role", func(t *testing.T) {
		_, err := service.CreateUser(context.Background(), "root", "rootpassword", "superuser")
		assert.Equal(t, ErrInvalidRole, err)
	})
}

func TestAuthenticate(t *testing.T) {
	service, m := NewMock(t)

	tests := []struct {
		name          string
		login         string
		password      string
		prepareMock   func()
		expectedUser  *domain.User
		expectedError error
	}{
		{
			name:     "Successful authentication",
			login:    "testuser",
			password: "testpassword",
			prepareMock: func() {
				m.repo.EXPECT().FindByLogin(context.Background(), "testuser").Return(&domain.User{
					ID:           1,
					Login:        "testuser",
					PasswordHash: "hashedpassword",
				}, nil)
				m.hasher.EXPECT().ComparePassword("hashedpassword", "testpassword").Return(true)
			},
			expectedUser: &domain.User{
				ID:           1,
				Login:        "testuser",
				PasswordHash: "hashedpassword",
			},
		},
		{
			name:     "Invalid credentials - user not found",
			login:    "testuser",
			password: "testpassword",
			prepareMock: func() {
				m.repo.EXPECT().FindByLogin(context.Background(), "testuser").Return(nil, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Invalid credentials - incorrect password",
			login:    "testuser",
			password: "wrongpassword",
			prepareMock: func() {
				m.repo.EXPECT().FindByLogin(context.Background(), "testuser").Return(&domain.User{
					ID:           1,
					Login:        "testuser",
					PasswordHash: "hashedpassword",
				}, nil)
				m.hasher.EXPECT().ComparePassword("hashedpassword", "wrongpassword").Return(false)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			user, err := service.Authenticate(context.Background(), tt.login, tt.password)
			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedUser, user)
			}
		})
	}
}

func TestGenerateToken(t *testing.T) {
	service, m := NewMock(t)
	user := &domain.User{ID: 1, Role: domain.RoleAdmin}

	tests := []struct {
		name          string
		prepareMock   func()
		expectedToken string
		expectedError error
	}{
		{
			name: "Successful token generation",
			prepareMock: func() {
				m.jwt.EXPECT().GenerateJWT(1, "admin", gomock.Any()).Return("generated-token", nil)
			},
			expectedToken: "generated-token",
		},
		{
			name: "Error generating token",
			prepareMock: func() {
				m.jwt.EXPECT().GenerateJWT(1, "admin", gomock.Any()).Return("", errors.New("can't generate token"))
			},
			expectedError: errors.New("can't generate token"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			token, err := service.GenerateToken(user)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedToken, token)
			}
		})
	}
}
