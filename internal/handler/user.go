package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/aura-social/liveroom/internal/domain"
	"github.com/aura-social/liveroom/internal/middleware"
)

// SyncUser creates or refreshes a user profile. The identity provider
// pushes profiles here with the shared API key; balances and levels are
// authoritative from its side.
func (h *Handler) SyncUser(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("X-API-Key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.cfg.AuthAPIKey)) != 1 {
		respondJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid api key"})
		return
	}

	var user domain.User
	if !decodeBody(w, r, &user) {
		return
	}
	if user.ID == "" {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "missing user id"})
		return
	}

	if err := h.users.Upsert(r.Context(), &user); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, &user)
}

// Me returns the caller's profile with current balance.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
