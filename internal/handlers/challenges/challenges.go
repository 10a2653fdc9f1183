package challenges

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/internal/dto"
	"github.com/GlebRadaev/betstream/internal/handlers/httperr"
	"github.com/GlebRadaev/betstream/pkg/utils"
)

type Service interface {
	Create(ctx context.Context, creatorID int, game string, betAmount decimal.Decimal, expiresAt *time.Time) (*domain.Challenge, error)
	Accept(ctx context.Context, userID, id int) (*domain.Challenge, error)
	Cancel(ctx context.Context, userID, id int) (*domain.Challenge, error)
	SubmitScore(ctx context.Context, userID, id, score int) (*domain.Challenge, error)
	Get(ctx context.Context, id int) (*domain.Challenge, error)
	List(ctx context.Context, filter domain.ChallengeFilter) ([]domain.Challenge, error)
}

type ChallengeHandler struct {
	challengeService Service
}

func New(challengeService Service) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
	}
}

// List godoc
//
//	@Summary		List challenges
//	@Tags			Challenges
//	@Security		BearerAuth
//	@Produce		json
//	@Param			status	query		string	false	"Filter by status"	Enums(open, accepted, in_progress, completed, cancelled)
//	@Param			game	query		string	false	"Filter by game"
//	@Param			mine	query		bool	false	"Only challenges the user takes part in"
//	@Param			open	query		bool	false	"Only open challenges that have not expired"
//	@Success		200		{object}	utils.Response{data=[]dto.ChallengeResponseDTO}
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/challenges [get]
func (h *ChallengeHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ChallengeFilter{
		Status: domain.ChallengeStatus(q.Get("status")),
		Game:   q.Get("game"),
	}
	if mine, _ := strconv.ParseBool(q.Get("mine")); mine {
		filter.UserID = httperr.UserID(r)
	}
	filter.OpenOnly, _ = strconv.ParseBool(q.Get("open"))

	challenges, err := h.challengeService.List(r.Context(), filter)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, "", dto.NewChallengeDTOs(challenges))
}

// Create godoc
//
//	@Summary		Create a challenge
//	@Description	Reserves the stake from the creator's available balance. Without expires_at the challenge expires after the configured TTL.
//	@Tags			Challenges
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateChallengeRequestDTO	true	"Challenge"
//	@Success		201		{object}	utils.Response{data=dto.ChallengeResponseDTO}
//	@Failure		400		{object}	utils.Response	"Insufficient balance"
//	@Failure		422		{object}	utils.Response	"Validation failed"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/challenges [post]
func (h *ChallengeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateChallengeRequestDTO
	if !httperr.Decode(w, r, &req) {
		return
	}
	challenge, err := h.challengeService.Create(r.Context(), httperr.UserID(r), req.Game, req.BetAmount, req.ExpiresAt)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusCreated, "Challenge created successfully", dto.NewChallengeDTO(challenge))
}

// Get godoc
//
//	@Summary		Get a challenge
//	@Tags			Challenges
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Challenge ID"
//	@Success		200	{object}	utils.Response{data=dto.ChallengeResponseDTO}
//	@Failure		404	{object}	utils.Response	"Challenge not found"
//	@Router			/api/challenges/{id} [get]
func (h *ChallengeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httperr.PathID(w, r)
	if !ok {
		return
	}
	challenge, err := h.challengeService.Get(r.Context(), id)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, "", dto.NewChallengeDTO(challenge))
}

// Accept godoc
//
//	@Summary		Accept a challenge
//	@Description	Reserves the same stake from the opponent's available balance.
//	@Tags			Challenges
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Challenge ID"
//	@Success		200	{object}	utils.Response{data=dto.ChallengeResponseDTO}
//	@Failure		400	{object}	utils.Response	"Challenge not open, expired, own challenge or insufficient balance"
//	@Failure		404	{object}	utils.Response	"Challenge not found"
//	@Router			/api/challenges/{id}/accept [post]
func (h *ChallengeHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, ok := httperr.PathID(w, r)
	if !ok {
		return
	}
	challenge, err := h.challengeService.Accept(r.Context(), httperr.UserID(r), id)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, "Challenge accepted successfully", dto.NewChallengeDTO(challenge))
}

// Cancel godoc
//
//	@Summary		Cancel an open challenge
//	@Description	Only the creator can cancel. The reserved stake is released.
//	@Tags			Challenges
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Challenge ID"
//	@Success		200	{object}	utils.Response{data=dto.ChallengeResponseDTO}
//	@Failure		400	{object}	utils.Response	"Challenge not open"
//	@Failure		403	{object}	utils.Response	"Not the creator"
//	@Failure		404	{object}	utils.Response	"Challenge not found"
//	@Router			/api/challenges/{id}/cancel [post]
func (h *ChallengeHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := httperr.PathID(w, r)
	if !ok {
		return
	}
	challenge, err := h.challengeService.Cancel(r.Context(), httperr.UserID(r), id)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, "Challenge cancelled successfully", dto.NewChallengeDTO(challenge))
}

// SubmitScore godoc
//
//	@Summary		Submit own score
//	@Description	Once both participants reported, the pot goes to the higher score. A tie refunds both stakes.
//	@Tags			Challenges
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Challenge ID"
//	@Param			request	body		dto.SubmitScoreRequestDTO	true	"Score"
//	@Success		200		{object}	utils.Response{data=dto.ChallengeResponseDTO}
//	@Failure		400		{object}	utils.Response	"Challenge not in play"
//	@Failure		403		{object}	utils.Response	"Not a participant"
//	@Failure		404		{object}	utils.Response	"Challenge not found"
//	@Failure		422		{object}	utils.Response	"Validation failed"
//	@Router			/api/challenges/{id}/scores [post]
func (h *ChallengeHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	id, ok := httperr.PathID(w, r)
	if !ok {
		return
	}
	var req dto.SubmitScoreRequestDTO
	if !httperr.Decode(w, r, &req) {
		return
	}
	challenge, err := h.challengeService.SubmitScore(r.Context(), httperr.UserID(r), id, *req.Score)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, "Score submitted successfully", dto.NewChallengeDTO(challenge))
}
