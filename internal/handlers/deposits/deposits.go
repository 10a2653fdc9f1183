package deposits

import (
	"context"
	"net/http"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/internal/dto"
	"github.com/GlebRadaev/betstream/internal/handlers/httperr"
	"github.com/GlebRadaev/betstream/pkg/utils"
)

type Service interface {
	Submit(ctx context.Context, deposit *domain.Deposit) (*domain.Deposit, error)
	Get(ctx context.Context, userID, id int) (*domain.Deposit, error)
	List(ctx context.Context, userID int) ([]domain.Deposit, error)
}

type DepositHandler struct {
	depositService Service
}

func New(depositService Service) *DepositHandler {
	return &DepositHandler{
		depositService: depositService,
	}
}

// Submit godoc
//
//	@Summary		Submit a deposit request
//	@Description	Crypto deposits need crypto_name and transaction_hash, cash deposits need location. Funds are credited once an admin approves.
//	@Tags			Deposits
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.DepositRequestDTO	true	"Deposit request"
//	@Success		201		{object}	utils.Response{data=dto.DepositResponseDTO}
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		422		{object}	utils.Response	"Validation failed"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/deposits [post]
func (h *DepositHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequestDTO
	if !httperr.Decode(w, r, &req) {
		return
	}
	deposit, err := h.depositService.Submit(r.Context(), req.ToDomain(httperr.UserID(r)))
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusCreated, "Deposit request submitted successfully", dto.NewDepositDTO(deposit))
}

// List godoc
//
//	@Summary		List own deposits
//	@Tags			Deposits
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	utils.Response{data=[]dto.DepositResponseDTO}
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/deposits [get]
func (h *DepositHandler) List(w http.ResponseWriter, r *http.Request) {
	deposits, err := h.depositService.List(r.Context(), httperr.UserID(r))
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, "", dto.NewDepositDTOs(deposits))
}

// Get godoc
//
//	@Summary		Get own deposit
//	@Tags			Deposits
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Deposit ID"
//	@Success		200	{object}	utils.Response{data=dto.DepositResponseDTO}
//	@Failure		400	{object}	utils.Response	"Invalid id"
//	@Failure		404	{object}	utils.Response	"Deposit not found"
//	@Router			/api/deposits/{id} [get]
func (h *DepositHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httperr.PathID(w, r)
	if !ok {
		return
	}
	deposit, err := h.depositService.Get(r.Context(), httperr.UserID(r), id)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, "", dto.NewDepositDTO(deposit))
}
