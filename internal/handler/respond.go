package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aura-social/liveroom/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// respondError maps domain errors to user-facing statuses. Anything
// unmapped is a 500 with a generic body; the real error stays in the logs.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		respondJSON(w, http.StatusPaymentRequired, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrGiftNotFound):
		respondJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrNotHost):
		respondJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrSeatOccupied):
		respondJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrSeatOutOfRange),
		errors.Is(err, domain.ErrInvalidMicCount),
		errors.Is(err, domain.ErrNoRecipients),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrUnknownToolAction):
		respondJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		slog.Error("request failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return false
	}
	return true
}
