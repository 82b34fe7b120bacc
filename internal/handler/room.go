package handler

import (
	"net/http"
	"strconv"

	"github.com/aura-social/liveroom/internal/config"
	"github.com/aura-social/liveroom/internal/middleware"
	"github.com/aura-social/liveroom/internal/room"
	"github.com/aura-social/liveroom/internal/service"
)

func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title    string `json:"title"`
		MicCount int    `json:"micCount"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	rm, err := h.rooms.Create(r.Context(), middleware.UserID(r.Context()), body.Title, body.MicCount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rm)
}

func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	rm, err := h.rooms.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rm)
}

// Seats returns the derived seat array: index i holds the speaker at seat
// i or null.
func (h *Handler) Seats(w http.ResponseWriter, r *http.Request) {
	rm, err := h.rooms.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, room.SeatsView(rm))
}

// SeatClick claims an empty seat or routes to the occupant's profile.
func (h *Handler) SeatClick(w http.ResponseWriter, r *http.Request) {
	seatIndex, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid seat index"})
		return
	}
	var body struct {
		Muted bool `json:"muted"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	res, err := h.rooms.SeatClick(r.Context(), r.PathValue("id"), middleware.UserID(r.Context()), seatIndex, body.Muted)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *Handler) LeaveSeat(w http.ResponseWriter, r *http.Request) {
	if err := h.rooms.LeaveSeat(r.Context(), r.PathValue("id"), middleware.UserID(r.Context())); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// SetMicLayout switches the room to one of the fixed capacities.
func (h *Handler) SetMicLayout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MicCount int `json:"micCount"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	err := h.rooms.SetMicLayout(r.Context(), r.PathValue("id"), middleware.UserID(r.Context()), body.MicCount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"micCount": body.MicCount})
}

// DispatchTool routes a host-tool action.
func (h *Handler) DispatchTool(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Action string `json:"action"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	res, err := h.rooms.DispatchTool(r.Context(), r.PathValue("id"), middleware.UserID(r.Context()), service.ToolAction(body.Action))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// ProfileAction routes a profile-sheet action.
func (h *Handler) ProfileAction(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Action       string `json:"action"`
		TargetUserID string `json:"targetUserId"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	route, err := service.RouteProfileAction(service.ProfileAction(body.Action), body.TargetUserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, route)
}

// Rank returns the room's top contributors.
func (h *Handler) Rank(w http.ResponseWriter, r *http.Request) {
	limit := h.rankLimit(r)
	recs, err := h.rank.Top(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, recs)
}

// MyRank returns the caller's position on the room leaderboard.
func (h *Handler) MyRank(w http.ResponseWriter, r *http.Request) {
	rank, amount, err := h.rank.Position(r.Context(), r.PathValue("id"), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"rank": rank, "amount": amount})
}

// MicSkin resolves the room's seat skin. No skin is a normal answer, not
// an error.
func (h *Handler) MicSkin(w http.ResponseWriter, r *http.Request) {
	rm, err := h.rooms.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	skins, err := h.skins.MicSkins(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"skin": skins[room.MicCount(rm)]})
}

func (h *Handler) rankLimit(r *http.Request) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			return n
		}
	}
	return config.RankPageSize
}
