package handler

import (
	"net/http"

	"github.com/aura-social/liveroom/internal/domain"
	"github.com/aura-social/liveroom/internal/middleware"
)

// Gifts returns the gift catalog.
func (h *Handler) Gifts(w http.ResponseWriter, r *http.Request) {
	gifts, err := h.catalog.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, gifts)
}

type sendGiftRequest struct {
	GiftID       string   `json:"giftId"`
	RecipientIDs []string `json:"recipientIds"`
	Quantity     int      `json:"quantity"`
}

type sendGiftResponse struct {
	Balance  int64             `json:"balance"`
	Event    *domain.GiftEvent `json:"event"`
	ComboHit int               `json:"comboHit"`
}

// SendGift charges the sender and records the gift in one atomic write,
// then advances the sender's combo session. A failed charge leaves the
// combo session untouched.
func (h *Handler) SendGift(w http.ResponseWriter, r *http.Request) {
	var body sendGiftRequest
	if !decodeBody(w, r, &body) {
		return
	}

	roomID := r.PathValue("id")
	userID := middleware.UserID(r.Context())

	sender, err := h.users.Get(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	gift, err := h.catalog.Get(r.Context(), body.GiftID)
	if err != nil {
		respondError(w, err)
		return
	}

	receipt, err := h.gifts.Send(r.Context(), roomID, sender, gift, body.RecipientIDs, body.Quantity)
	if err != nil {
		// Any failure here, a short balance included, returns before the
		// combo session is touched.
		respondError(w, err)
		return
	}

	// The event carries the deduplicated recipient set the transaction
	// priced; the combo keys on that, not on the raw request.
	session := h.combos.Hit(roomID, userID, gift.ID, receipt.Event.RecipientIDs)
	respondJSON(w, http.StatusOK, sendGiftResponse{
		Balance:  receipt.Sender.Coins,
		Event:    receipt.Event,
		ComboHit: session.HitCount,
	})
}

// SendLuckyBag distributes a coin giveaway from the sender's balance.
func (h *Handler) SendLuckyBag(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount  int64 `json:"amount"`
		Winners int   `json:"winners"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	sender, err := h.users.Get(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	receipt, err := h.gifts.SendLuckyBag(r.Context(), r.PathValue("id"), sender, body.Amount, body.Winners)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sendGiftResponse{
		Balance: receipt.Sender.Coins,
		Event:   receipt.Event,
	})
}

// GiftEvents returns the room's recent gift feed, newest first.
func (h *Handler) GiftEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.catalog.RecentEvents(r.Context(), r.PathValue("id"), 20)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// Combo reports the caller's active combo session, if any.
func (h *Handler) Combo(w http.ResponseWriter, r *http.Request) {
	session, ok := h.combos.Active(r.PathValue("id"), middleware.UserID(r.Context()))
	if !ok {
		respondJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"active":   true,
		"giftId":   session.GiftID,
		"hitCount": session.HitCount,
		"expiry":   session.Expiry,
	})
}
