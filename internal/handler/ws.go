package handler

import (
	"net/http"

	"github.com/aura-social/liveroom/internal/middleware"
)

// JoinRoom upgrades to a WebSocket and attaches the client to the room's
// fanout. The first client in a room starts its synchronizer; the last
// one out stops it.
func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r, r.PathValue("id"), middleware.UserID(r.Context()), h.messages, h.combos)
}
