package handler

import (
	"net/http"
	"time"

	"github.com/aura-social/liveroom/internal/config"
)

// Messages returns room messages sent at or after the given instant.
// Clients pass the moment they joined so history from before their
// session never renders.
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	since := time.Now()
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid since timestamp"})
			return
		}
		since = parsed
	}

	msgs, err := h.messages.ListSince(r.Context(), r.PathValue("id"), since, config.MessagePageLimit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, msgs)
}
