package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/aura-social/liveroom/internal/auth"
)

// Token mints a bearer token for a known user. The identity provider in
// front of this service calls it with the shared API key after it has
// authenticated the user itself.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("X-API-Key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.cfg.AuthAPIKey)) != 1 {
		respondJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid api key"})
		return
	}

	var body struct {
		UserID string `json:"userId"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	user, err := h.users.Get(r.Context(), body.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	ttl := time.Duration(h.cfg.TokenTTLHours) * time.Hour
	token, err := auth.GenerateToken(h.cfg.JWTSecret, user.ID, user.Name, ttl)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}
