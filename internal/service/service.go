package service

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/GlebRadaev/betstream/internal/config"
	"github.com/GlebRadaev/betstream/internal/handlers/admin"
	"github.com/GlebRadaev/betstream/internal/handlers/auth"
	"github.com/GlebRadaev/betstream/internal/handlers/bets"
	"github.com/GlebRadaev/betstream/internal/handlers/challenges"
	"github.com/GlebRadaev/betstream/internal/handlers/deposits"
	"github.com/GlebRadaev/betstream/internal/handlers/wallet"
	"github.com/GlebRadaev/betstream/internal/handlers/withdrawals"
	"github.com/GlebRadaev/betstream/internal/pg"
	"github.com/GlebRadaev/betstream/internal/repo"
	"github.com/GlebRadaev/betstream/internal/service/adminservice"
	"github.com/GlebRadaev/betstream/internal/service/authservice"
	"github.com/GlebRadaev/betstream/internal/service/betservice"
	"github.com/GlebRadaev/betstream/internal/service/challengeservice"
	"github.com/GlebRadaev/betstream/internal/service/depositservice"
	"github.com/GlebRadaev/betstream/internal/service/walletservice"
	"github.com/GlebRadaev/betstream/internal/service/withdrawalservice"
	pkgauth "github.com/GlebRadaev/betstream/pkg/auth"
)

type Services struct {
	AuthService       auth.Service
	WalletService     wallet.Service
	DepositService    deposits.Service
	WithdrawalService withdrawals.Service
	ChallengeService  challenges.Service
	BetService        bets.Service
	AdminService      admin.Service
}

func New(
	cfg *config.Config,
	repo *repo.Repositories,
	txManager pg.TXManager,
	matches betservice.MatchProvider,
	jwtService pkgauth.JWTServiceInterface,
) *Services {
	walletService := walletservice.New(repo.WalletRepo, cfg.DefaultCurrency)
	authService := authservice.New(repo.UserRepo, walletService, pkgauth.NewHashService(bcrypt.DefaultCost), jwtService, txManager)
	depositService := depositservice.New(repo.DepositRepo, walletService, repo.Outbox, txManager)
	withdrawalService := withdrawalservice.New(repo.WithdrawalRepo, walletService, repo.Outbox, txManager)
	challengeService := challengeservice.New(repo.ChallengeRepo, walletService, repo.Outbox, txManager, cfg.ChallengeTTL)
	betService := betservice.New(repo.BetRepo, matches, walletService, repo.Outbox, txManager)

	return &Services{
		AuthService:       authService,
		WalletService:     walletService,
		DepositService:    depositService,
		WithdrawalService: withdrawalService,
		ChallengeService:  challengeService,
		BetService:        betService,
		AdminService:      adminservice.New(repo.StatsRepo, depositService, withdrawalService, authService),
	}
}
