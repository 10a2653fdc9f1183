// Package httperr holds request helpers shared by the API handlers.
package httperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/pkg/auth"
	"github.com/GlebRadaev/betstream/pkg/utils"
	"github.com/GlebRadaev/betstream/pkg/validate"
)

// Status maps an error kind to a response status.
func Status(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err. Messages of unclassified errors are not exposed.
func Respond(w http.ResponseWriter, err error) {
	code := Status(err)
	if code == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.Error(err))
		utils.RespondWithError(w, code, "Internal server error")
		return
	}
	utils.RespondWithError(w, code, err.Error())
}

func UserID(r *http.Request) int {
	userID, _ := r.Context().Value(auth.UserIDKey).(int)
	return userID
}

// PathID parses the {id} route parameter and writes 400 when it is not a
// positive integer.
func PathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

// Decode reads a JSON body into dst and validates it. On failure the
// response is already written.
func Decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if errs := validate.Struct(dst); errs != nil {
		utils.RespondWithValidationErrors(w, errs)
		return false
	}
	return true
}
