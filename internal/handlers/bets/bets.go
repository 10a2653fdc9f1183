package bets

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
	Place(ctx context.Context, userID, matchID int, betType domain.BetType, amount decimal.Decimal) (*domain.Bet, error)
	List(ctx context.Context, userID int, status domain.BetStatus) ([]domain.Bet, error)
}

type BetHandler struct {
	betService Service
}

func New(betService Service) *BetHandler {
	return &BetHandler{
		betService: betService,
	}
}

// Place godoc
//
//	@Summary		Place a fixed-odds bet
//	@Description	The odds of the chosen outcome are frozen at placement and the stake is debited at once.
//	@Tags			Bets
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.PlaceBetRequestDTO	true	"Bet request"
//	@Success		201		{object}	utils.Response{data=dto.BetResponseDTO}
//	@Failure		400		{object}	utils.Response	"Match closed or insufficient balance"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Match not found"
//	@Failure		422		{object}	utils.Response	"Validation failed"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/bets [post]
func (h *BetHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequestDTO
	if !httperr.Decode(w, r, &req) {
		return
	}
	bet, err := h.betService.Place(r.Context(), httperr.UserID(r), req.GameMatchID, domain.BetType(req.BetType), req.Amount)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusCreated, "Bet placed successfully", dto.NewBetDTO(bet))
}

// List godoc
//
//	@Summary		List own bets
//	@Tags			Bets
//	@Security		BearerAuth
//	@Produce		json
//	@Param			status	query		string	false	"Filter by status"	Enums(pending, won, lost)
//	@Success		200		{object}	utils.Response{data=[]dto.BetResponseDTO}
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/bets [get]
func (h *BetHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.BetStatus(r.URL.Query().Get("status"))
	bets, err := h.betService.List(r.Context(), httperr.UserID(r), status)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, "", dto.NewBetDTOs(bets))
}
