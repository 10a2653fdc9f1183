package repo

import (
	"github.com/GlebRadaev/betstream/internal/outbox"
	"github.com/GlebRadaev/betstream/internal/pg"
	"github.com/GlebRadaev/betstream/internal/reconcile"
	betrepo "github.com/GlebRadaev/betstream/internal/repo/bet-repo"
	challengerepo "github.com/GlebRadaev/betstream/internal/repo/challenge-repo"
	depositrepo "github.com/GlebRadaev/betstream/internal/repo/deposit-repo"
	outboxrepo "github.com/GlebRadaev/betstream/internal/repo/outbox-repo"
	statsrepo "github.com/GlebRadaev/betstream/internal/repo/stats-repo"
	userrepo "github.com/GlebRadaev/betstream/internal/repo/user-repo"
	walletrepo "github.com/GlebRadaev/betstream/internal/repo/wallet-repo"
	withdrawalrepo "github.com/GlebRadaev/betstream/internal/repo/withdrawal-repo"
	"github.com/GlebRadaev/betstream/internal/service/adminservice"
	"github.com/GlebRadaev/betstream/internal/service/authservice"
	"github.com/GlebRadaev/betstream/internal/service/betservice"
	"github.com/GlebRadaev/betstream/internal/service/challengeservice"
	"github.com/GlebRadaev/betstream/internal/service/depositservice"
	"github.com/GlebRadaev/betstream/internal/service/ledger"
	"github.com/GlebRadaev/betstream/internal/service/walletservice"
	"github.com/GlebRadaev/betstream/internal/service/withdrawalservice"
)

type Repositories struct {
	UserRepo       authservice.Repo
	WalletRepo     walletservice.Repo
	DepositRepo    depositservice.Repo
	WithdrawalRepo withdrawalservice.Repo
	ChallengeRepo  challengeservice.Repo
	BetRepo        betservice.Repo
	StatsRepo      adminservice.StatsRepo
	Outbox         ledger.Outbox
	OutboxRelay    outbox.Repo
	Reconcile      reconcile.Repo
}

func New(conn pg.Database) *Repositories {
	walletRepo := walletrepo.New(conn)
	outboxRepo := outboxrepo.New(conn)

	return &Repositories{
		UserRepo:       userrepo.New(conn),
		WalletRepo:     walletRepo,
		DepositRepo:    depositrepo.New(conn),
		WithdrawalRepo: withdrawalrepo.New(conn),
		ChallengeRepo:  challengerepo.New(conn),
		BetRepo:        betrepo.New(conn),
		StatsRepo:      statsrepo.New(conn),
		Outbox:         outboxRepo,
		OutboxRelay:    outboxRepo,
		Reconcile:      walletRepo,
	}
}
