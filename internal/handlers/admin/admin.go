package admin

import (
	"context"
	"net/http"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/internal/dto"
	"github.com/GlebRadaev/betstream/internal/handlers/httperr"
	"github.com/GlebRadaev/betstream/pkg/utils"
)

type Service interface {
	Stats(ctx context.Context) (*domain.Stats, error)
	ApproveDeposit(ctx context.Context, id int) (*domain.Deposit, error)
	RejectDeposit(ctx context.Context, id int) (*domain.Deposit, error)
	ApproveWithdrawal(ctx context.Context, id int) (*domain.Withdrawal, error)
	RejectWithdrawal(ctx context.Context, id int) (*domain.Withdrawal, error)
	CreateUser(ctx context.Context, login, password string, role domain.Role) (*domain.User, error)
}

type AdminHandler struct {
	adminService Service
}

func New(adminService Service) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// Stats godoc
//
//	@Summary		Platform totals
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	utils.Response{data=dto.StatsResponseDTO}
//	@Failure		403	{object}	utils.Response	"Admin access required"
//	@Router			/api/admin/stats [get]
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, "", dto.NewStatsDTO(stats))
}

// CreateUser godoc
//
//	@Summary		Create a user with a role
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateUserRequestDTO	true	"User"
//	@Success		201		{object}	utils.Response{data=dto.UserDTO}
//	@Failure		403		{object}	utils.Response	"Admin access required"
//	@Failure		409		{object}	utils.Response	"User already exists"
//	@Failure		422		{object}	utils.Response	"Validation failed"
//	@Router			/api/admin/users [post]
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequestDTO
	if !httperr.Decode(w, r, &req) {
		return
	}
	role := domain.Role(req.Role)
	if role == "" {
		role = domain.RoleUser
	}
	user, err := h.adminService.CreateUser(r.Context(), req.Login, req.Password, role)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusCreated, "User created successfully", dto.NewUserDTO(user))
}

// ApproveDeposit godoc
//
//	@Summary		Approve a pending deposit
//	@Description	Credits the deposit amount to the user's wallet.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Deposit ID"
//	@Success		200	{object}	utils.Response{data=dto.DepositResponseDTO}
//	@Failure		400	{object}	utils.Response	"Deposit is not pending"
//	@Failure		404	{object}	utils.Response	"Deposit not found"
//	@Router			/api/admin/deposits/{id}/approve [post]
func (h *AdminHandler) ApproveDeposit(w http.ResponseWriter, r *http.Request) {
	h.depositAction(w, r, h.adminService.ApproveDeposit, "Deposit approved successfully")
}

// RejectDeposit godoc
//
//	@Summary		Reject a pending deposit
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Deposit ID"
//	@Success		200	{object}	utils.Response{data=dto.DepositResponseDTO}
//	@Failure		400	{object}	utils.Response	"Deposit is not pending"
//	@Failure		404	{object}	utils.Response	"Deposit not found"
//	@Router			/api/admin/deposits/{id}/reject [post]
func (h *AdminHandler) RejectDeposit(w http.ResponseWriter, r *http.Request) {
	h.depositAction(w, r, h.adminService.RejectDeposit, "Deposit rejected successfully")
}

// ApproveWithdrawal godoc
//
//	@Summary		Approve a pending withdrawal
//	@Description	The reserved funds leave the user's wallet.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Withdrawal ID"
//	@Success		200	{object}	utils.Response{data=dto.WithdrawalResponseDTO}
//	@Failure		400	{object}	utils.Response	"Withdrawal is not pending"
//	@Failure		404	{object}	utils.Response	"Withdrawal not found"
//	@Router			/api/admin/withdrawals/{id}/approve [post]
func (h *AdminHandler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.withdrawalAction(w, r, h.adminService.ApproveWithdrawal, "Withdrawal approved successfully")
}

// RejectWithdrawal godoc
//
//	@Summary		Reject a pending withdrawal
//	@Description	The reservation is released.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Withdrawal ID"
//	@Success		200	{object}	utils.Response{data=dto.WithdrawalResponseDTO}
//	@Failure		400	{object}	utils.Response	"Withdrawal is not pending"
//	@Failure		404	{object}	utils.Response	"Withdrawal not found"
//	@Router			/api/admin/withdrawals/{id}/reject [post]
func (h *AdminHandler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.withdrawalAction(w, r, h.adminService.RejectWithdrawal, "Withdrawal rejected successfully")
}

func (h *AdminHandler) depositAction(w http.ResponseWriter, r *http.Request,
	action func(ctx context.Context, id int) (*domain.Deposit, error), message string) {
	id, ok := httperr.PathID(w, r)
	if !ok {
		return
	}
	deposit, err := action(r.Context(), id)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, message, dto.NewDepositDTO(deposit))
}

func (h *AdminHandler) withdrawalAction(w http.ResponseWriter, r *http.Request,
	action func(ctx context.Context, id int) (*domain.Withdrawal, error), message string) {
	id, ok := httperr.PathID(w, r)
	if !ok {
		return
	}
	withdrawal, err := action(r.Context(), id)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, message, dto.NewWithdrawalDTO(withdrawal))
}
