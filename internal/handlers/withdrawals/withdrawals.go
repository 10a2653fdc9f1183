package withdrawals

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/internal/dto"
	"github.com/GlebRadaev/betstream/internal/handlers/httperr"
	"github.com/GlebRadaev/betstream/pkg/utils"
)

type Service interface {
	Submit(ctx context.Context, userID int, amount decimal.Decimal) (*domain.Withdrawal, error)
	List(ctx context.Context, userID int) ([]domain.Withdrawal, error)
	Get(ctx context.Context, userID, id int) (*domain.Withdrawal, error)
}

type WithdrawalHandler struct {
	withdrawalService Service
}

func New(withdrawalService Service) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
	}
}

// Submit godoc
//
//	@Summary		Request a withdrawal
//	@Description	Reserves the amount from the available balance until an admin approves or rejects the request.
//	@Tags			Withdrawals
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.WithdrawalRequestDTO	true	"Withdrawal request"
//	@Success		201		{object}	utils.Response{data=dto.WithdrawalResponseDTO}
//	@Failure		400		{object}	utils.Response	"Insufficient balance"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		422		{object}	utils.Response	"Validation failed"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/withdrawals [post]
func (h *WithdrawalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawalRequestDTO
	if !httperr.Decode(w, r, &req) {
		return
	}
	withdrawal, err := h.withdrawalService.Submit(r.Context(), httperr.UserID(r), req.Amount)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusCreated, "Withdrawal request submitted successfully", dto.NewWithdrawalDTO(withdrawal))
}

// List godoc
//
//	@Summary		List own withdrawals
//	@Tags			Withdrawals
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	utils.Response{data=[]dto.WithdrawalResponseDTO}
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/withdrawals [get]
func (h *WithdrawalHandler) List(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.withdrawalService.List(r.Context(), httperr.UserID(r))
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, "", dto.NewWithdrawalDTOs(withdrawals))
}

// Get godoc
//
//	@Summary		Get own withdrawal
//	@Tags			Withdrawals
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Withdrawal ID"
//	@Success		200	{object}	utils.Response{data=dto.WithdrawalResponseDTO}
//	@Failure		400	{object}	utils.Response	"Invalid id"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Withdrawal not found"
//	@Router			/api/withdrawals/{id} [get]
func (h *WithdrawalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httperr.PathID(w, r)
	if !ok {
		return
	}
	withdrawal, err := h.withdrawalService.Get(r.Context(), httperr.UserID(r), id)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, "", dto.NewWithdrawalDTO(withdrawal))
}
