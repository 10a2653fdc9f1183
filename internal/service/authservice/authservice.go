package authservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/internal/pg"
	"github.com/GlebRadaev/betstream/pkg/auth"
)

type Repo interface {
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

type Wallets interface {
	GetOrCreate(ctx context.Context, userID int) (*domain.Wallet, error)
}

const TokenTTL = 24 * time.Hour

var (
	ErrLoginTaken         = domain.NewError(domain.ErrConflict, "username already taken")
	ErrInvalidRole        = domain.NewError(domain.ErrValidation, "role must be user or admin")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	userRepo    Repo
	wallets     Wallets
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface
	txManager   pg.TXManager
}

func New(repo Repo, wallets Wallets, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface, txManager pg.TXManager) *Service {
	return &Service{
		userRepo:    repo,
		wallets:     wallets,
		hashService: hashService,
		jwtService:  jwtService,
		txManager:   txManager,
	}
}

func (s *Service) Register(ctx context.Context, login, password string) (*domain.User, error) {
	return s.CreateUser(ctx, login, password, domain.RoleUser)
}

// CreateUser stores the user together with an empty wallet.
func (s *Service) CreateUser(ctx context.Context, login, password string, role domain.Role) (*domain.User, error) {
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, ErrInvalidRole
	}
	login = strings.TrimSpace(login)

	var user *domain.User
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		existingUser, err := s.userRepo.FindByLogin(ctx, login)
		if err != nil {
			zap.L().Error("can't find user", zap.Error(err))
			return err
		}
		if existingUser != nil {
			zap.L().Info("user already exists", zap.String("login", login))
			return ErrLoginTaken
		}

		hashedPassword, err := s.hashService.HashPassword(password)
		if err != nil {
			zap.L().Error("can't hash password", zap.Error(err))
			return err
		}
		user, err = s.userRepo.Create(ctx, &domain.User{
			Login:        login,
			PasswordHash: hashedPassword,
			Role:         role,
		})
		if err != nil {
			zap.L().Error("can't create user", zap.Error(err))
			return err
		}

		if _, err := s.wallets.GetOrCreate(ctx, user.ID); err != nil {
			zap.L().Error("can't create wallet", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("user successfully registered", zap.String("login", login), zap.String("role", string(role)))
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByLogin(ctx, strings.TrimSpace(login))
	if err != nil || user == nil {
		zap.L().Info("invalid credentials", zap.String("login", login), zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if ok := s.hashService.ComparePassword(user.PasswordHash, password); !ok {
		zap.L().Info("invalid credentials", zap.String("login", login))
		return nil, ErrInvalidCredentials
	}
	zap.L().Info("user successfully authenticated", zap.String("login", login))
	return user, nil
}

func (s *Service) GenerateToken(user *domain.User) (string, error) {
	token, err := s.jwtService.GenerateJWT(user.ID, string(user.Role), time.Now().Add(TokenTTL))
	if err != nil {
		zap.L().Error("can't generate token", zap.Error(err))
		return "", err
	}
	return token, nil
}
