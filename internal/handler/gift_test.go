package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aura-social/liveroom/internal/config"
	"github.com/aura-social/liveroom/internal/domain"
	"github.com/aura-social/liveroom/internal/middleware"
	"github.com/aura-social/liveroom/internal/service"
	"github.com/aura-social/liveroom/internal/stream"
	"github.com/stretchr/testify/require"
)

type stubGiftStore struct {
	balance int64
	applied int
}

func (s *stubGiftStore) ApplyGiftSend(ctx context.Context, order domain.GiftSend) (*domain.User, *domain.GiftEvent, error) {
	if s.balance < order.TotalCost {
		return nil, nil, domain.ErrInsufficientBalance
	}
	s.balance -= order.TotalCost
	s.applied++
	sender := order.Sender
	sender.Coins = s.balance
	return &sender, &domain.GiftEvent{
		ID:           "ev1",
		RoomID:       order.RoomID,
		GiftID:       order.Gift.ID,
		SenderID:     order.Sender.ID,
		RecipientIDs: order.RecipientIDs,
		Quantity:     order.Quantity,
		CreatedAt:    time.Now(),
	}, nil
}

type stubUsers struct{ user domain.User }

func (s *stubUsers) Get(ctx context.Context, id string) (*domain.User, error) {
	if s.user.ID != id {
		return nil, domain.ErrUserNotFound
	}
	cp := s.user
	return &cp, nil
}

func (s *stubUsers) Upsert(ctx context.Context, u *domain.User) error {
	s.user = *u
	return nil
}

type stubCatalog struct{ gift domain.Gift }

func (s *stubCatalog) Get(ctx context.Context, id string) (*domain.Gift, error) {
	if s.gift.ID != id {
		return nil, domain.ErrGiftNotFound
	}
	cp := s.gift
	return &cp, nil
}

func (s *stubCatalog) List(ctx context.Context) ([]domain.Gift, error) {
	return []domain.Gift{s.gift}, nil
}

func (s *stubCatalog) RecentEvents(ctx context.Context, roomID string, limit int) ([]domain.GiftEvent, error) {
	return nil, nil
}

type nopRank struct{}

func (nopRank) RecordContribution(ctx context.Context, roomID, userID string, amount int64) {}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, c stream.Change) error { return nil }

type nopAlerts struct{}

func (nopAlerts) EconomicWriteFailure(err error, detail string) {}

func newGiftHandler(t *testing.T, balance int64) (*Handler, *stubGiftStore) {
	t.Helper()
	store := &stubGiftStore{balance: balance}
	h := New(Deps{
		Cfg:     &config.Config{},
		Gifts:   service.NewGiftService(store, nopRank{}, nopPublisher{}, nopAlerts{}),
		Combos:  service.NewComboService(time.Minute, nil),
		Users:   &stubUsers{user: domain.User{ID: "u1", Name: "Alice", Coins: balance}},
		Catalog: &stubCatalog{gift: domain.Gift{ID: "rose", Name: "Rose", Cost: 50}},
	})
	return h, store
}

func sendGift(t *testing.T, h *Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/rooms/r1/gifts", bytes.NewReader(raw))
	req.SetPathValue("id", "r1")
	req = req.WithContext(middleware.WithUser(req.Context(), "u1", "Alice"))
	rec := httptest.NewRecorder()
	h.SendGift(rec, req)
	return rec
}

func TestSendGiftChargesAndStartsCombo(t *testing.T) {
	h, store := newGiftHandler(t, 1000)

	rec := sendGift(t, h, sendGiftRequest{GiftID: "rose", RecipientIDs: []string{"a", "b"}, Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp sendGiftResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(800), resp.Balance)
	require.Equal(t, 1, resp.ComboHit)
	require.Equal(t, 1, store.applied)

	session, ok := h.combos.Active("r1", "u1")
	require.True(t, ok)
	require.Equal(t, "rose", session.GiftID)
}

func TestSendGiftInsufficientLeavesComboUntouched(t *testing.T) {
	h, store := newGiftHandler(t, 1000)

	rec := sendGift(t, h, sendGiftRequest{GiftID: "rose", RecipientIDs: []string{"a"}, Quantity: 1})
	require.Equal(t, http.StatusOK, rec.Code)

	// Balance is now 950; a 999-quantity send cannot be covered.
	rec = sendGift(t, h, sendGiftRequest{GiftID: "rose", RecipientIDs: []string{"a"}, Quantity: 999})
	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	require.Equal(t, 1, store.applied)

	session, ok := h.combos.Active("r1", "u1")
	require.True(t, ok)
	require.Equal(t, 1, session.HitCount)
}

func TestSendGiftComboIgnoresDuplicateRecipients(t *testing.T) {
	h, _ := newGiftHandler(t, 1000)

	rec := sendGift(t, h, sendGiftRequest{GiftID: "rose", RecipientIDs: []string{"a", "a"}, Quantity: 1})
	require.Equal(t, http.StatusOK, rec.Code)

	// Economically identical send; the duplicate must not break the run.
	rec = sendGift(t, h, sendGiftRequest{GiftID: "rose", RecipientIDs: []string{"a"}, Quantity: 1})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp sendGiftResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.ComboHit)
}

func TestSendGiftUnknownGift(t *testing.T) {
	h, _ := newGiftHandler(t, 1000)

	rec := sendGift(t, h, sendGiftRequest{GiftID: "nope", RecipientIDs: []string{"a"}, Quantity: 1})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendGiftNoRecipients(t *testing.T) {
	h, _ := newGiftHandler(t, 1000)

	rec := sendGift(t, h, sendGiftRequest{GiftID: "rose", Quantity: 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
