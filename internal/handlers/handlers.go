package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/GlebRadaev/betstream/docs"
	adminhandlers "github.com/GlebRadaev/betstream/internal/handlers/admin"
	authhandlers "github.com/GlebRadaev/betstream/internal/handlers/auth"
	bethandlers "github.com/GlebRadaev/betstream/internal/handlers/bets"
	challengehandlers "github.com/GlebRadaev/betstream/internal/handlers/challenges"
	deposithandlers "github.com/GlebRadaev/betstream/internal/handlers/deposits"
	wallethandlers "github.com/GlebRadaev/betstream/internal/handlers/wallet"
	withdrawalhandlers "github.com/GlebRadaev/betstream/internal/handlers/withdrawals"
	"github.com/GlebRadaev/betstream/internal/service"
	"github.com/GlebRadaev/betstream/pkg/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type WalletHandler interface {
	GetWallet(w http.ResponseWriter, r *http.Request)
}

type DepositHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type WithdrawalHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type ChallengeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Accept(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	SubmitScore(w http.ResponseWriter, r *http.Request)
}

type BetHandler interface {
	Place(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	Stats(w http.ResponseWriter, r *http.Request)
	CreateUser(w http.ResponseWriter, r *http.Request)
	ApproveDeposit(w http.ResponseWriter, r *http.Request)
	RejectDeposit(w http.ResponseWriter, r *http.Request)
	ApproveWithdrawal(w http.ResponseWriter, r *http.Request)
	RejectWithdrawal(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler       AuthHandler
	WalletHandler     WalletHandler
	DepositHandler    DepositHandler
	WithdrawalHandler WithdrawalHandler
	ChallengeHandler  ChallengeHandler
	BetHandler        BetHandler
	AdminHandler      AdminHandler

	jwt auth.JWTServiceInterface
}

func New(s *service.Services, jwt auth.JWTServiceInterface) *Handlers {
	return &Handlers{
		AuthHandler:       authhandlers.New(s.AuthService),
		WalletHandler:     wallethandlers.New(s.WalletService),
		DepositHandler:    deposithandlers.New(s.DepositService),
		WithdrawalHandler: withdrawalhandlers.New(s.WithdrawalService),
		ChallengeHandler:  challengehandlers.New(s.ChallengeService),
		BetHandler:        bethandlers.New(s.BetService),
		AdminHandler:      adminhandlers.New(s.AdminService),
		jwt:               jwt,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", h.AuthHandler.Register)
		r.Post("/login", h.AuthHandler.Login)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.AuthMiddleware(h.jwt))

		r.Get("/wallet", h.WalletHandler.GetWallet)
		r.Route("/deposits", func(r chi.Router) {
			r.Post("/", h.DepositHandler.Submit)
			r.Get("/", h.DepositHandler.List)
			r.Get("/{id}", h.DepositHandler.Get)
		})
		r.Route("/withdrawals", func(r chi.Router) {
			r.Post("/", h.WithdrawalHandler.Submit)
			r.Get("/", h.WithdrawalHandler.List)
			r.Get("/{id}", h.WithdrawalHandler.Get)
		})
		r.Route("/challenges", func(r chi.Router) {
			r.Get("/", h.ChallengeHandler.List)
			r.Post("/", h.ChallengeHandler.Create)
			r.Get("/{id}", h.ChallengeHandler.Get)
			r.Post("/{id}/accept", h.ChallengeHandler.Accept)
			r.Post("/{id}/cancel", h.ChallengeHandler.Cancel)
			r.Post("/{id}/scores", h.ChallengeHandler.SubmitScore)
		})
		r.Route("/bets", func(r chi.Router) {
			r.Get("/", h.BetHandler.List)
			r.Post("/", h.BetHandler.Place)
		})
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.AdminMiddleware)
			r.Get("/stats", h.AdminHandler.Stats)
			r.Post("/users", h.AdminHandler.CreateUser)
			r.Post("/deposits/{id}/approve", h.AdminHandler.ApproveDeposit)
			r.Post("/deposits/{id}/reject", h.AdminHandler.RejectDeposit)
			r.Post("/withdrawals/{id}/approve", h.AdminHandler.ApproveWithdrawal)
			r.Post("/withdrawals/{id}/reject", h.AdminHandler.RejectWithdrawal)
		})
	})

	return r
}
