package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aura-social/liveroom/internal/config"
	"github.com/aura-social/liveroom/internal/domain"
	"github.com/aura-social/liveroom/internal/stream"
)

// GiftStore applies the priced send order as one all-or-nothing unit.
type GiftStore interface {
	ApplyGiftSend(ctx context.Context, order domain.GiftSend) (*domain.User, *domain.GiftEvent, error)
}

// ChangePublisher notifies room synchronizers after a committed mutation.
type ChangePublisher interface {
	Publish(ctx context.Context, c stream.Change) error
}

// RankRecorder keeps the contribution leaderboard cache warm.
type RankRecorder interface {
	RecordContribution(ctx context.Context, roomID, userID string, amount int64)
}

// EconomyAlerter mirrors economic write failures to the ops channel.
type EconomyAlerter interface {
	EconomicWriteFailure(err error, detail string)
}

type GiftService struct {
	store   GiftStore
	rank    RankRecorder
	changes ChangePublisher
	alerts  EconomyAlerter
}

func NewGiftService(store GiftStore, rank RankRecorder, changes ChangePublisher, alerts EconomyAlerter) *GiftService {
	return &GiftService{store: store, rank: rank, changes: changes, alerts: alerts}
}

type SendReceipt struct {
	Sender    *domain.User
	Event     *domain.GiftEvent
	TotalCost int64
}

// Send prices and executes one gift transaction. The affordability check
// runs against the caller-supplied balance; the store re-checks under a
// row lock before the debit. A store failure is returned to the caller and
// mirrored to ops, never swallowed: either every record changes or none
// does, and the sender knows which.
func (s *GiftService) Send(ctx context.Context, roomID string, sender *domain.User, gift *domain.Gift, recipientIDs []string, quantity int) (*SendReceipt, error) {
	recipients := uniqueIDs(recipientIDs)
	if len(recipients) == 0 {
		return nil, domain.ErrNoRecipients
	}
	if quantity < 1 || quantity > config.MaxGiftQuantity {
		return nil, domain.ErrInvalidQuantity
	}

	totalCost := gift.Cost * int64(quantity) * int64(len(recipients))
	if !sender.CanAfford(totalCost) {
		return nil, domain.ErrInsufficientBalance
	}

	updated, event, err := s.store.ApplyGiftSend(ctx, domain.GiftSend{
		RoomID:       roomID,
		Sender:       *sender,
		Gift:         *gift,
		RecipientIDs: recipients,
		Quantity:     quantity,
		TotalCost:    totalCost,
		CharmDelta:   gift.Cost * int64(quantity),
	})
	if err != nil {
		if err != domain.ErrInsufficientBalance {
			s.alerts.EconomicWriteFailure(err, fmt.Sprintf("gift %s from %s in room %s", gift.ID, sender.ID, roomID))
		}
		return nil, fmt.Errorf("apply gift send: %w", err)
	}

	s.afterCommit(ctx, roomID, updated.ID, totalCost, event)
	return &SendReceipt{Sender: updated, Event: event, TotalCost: totalCost}, nil
}

// SendLuckyBag records a coin giveaway through the same atomic path: the
// full amount is debited and audited, no charm is credited.
func (s *GiftService) SendLuckyBag(ctx context.Context, roomID string, sender *domain.User, amount int64, winners int) (*SendReceipt, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if winners < 1 {
		winners = 1
	}
	if !sender.CanAfford(amount) {
		return nil, domain.ErrInsufficientBalance
	}

	updated, event, err := s.store.ApplyGiftSend(ctx, domain.GiftSend{
		RoomID:       roomID,
		Sender:       *sender,
		Gift:         domain.Gift{ID: "lucky_bag", Name: "Lucky Bag", Animation: "bag", Cost: amount},
		RecipientIDs: []string{},
		Quantity:     winners,
		TotalCost:    amount,
		CharmDelta:   0,
	})
	if err != nil {
		if err != domain.ErrInsufficientBalance {
			s.alerts.EconomicWriteFailure(err, fmt.Sprintf("lucky bag from %s in room %s", sender.ID, roomID))
		}
		return nil, fmt.Errorf("apply lucky bag: %w", err)
	}

	s.afterCommit(ctx, roomID, updated.ID, amount, event)
	return &SendReceipt{Sender: updated, Event: event, TotalCost: amount}, nil
}

// afterCommit runs the non-economic side effects. Failures here degrade
// freshness, not correctness, so they log instead of propagating.
func (s *GiftService) afterCommit(ctx context.Context, roomID, senderID string, totalCost int64, event *domain.GiftEvent) {
	s.rank.RecordContribution(ctx, roomID, senderID, totalCost)

	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("encode gift event", "error", err)
		payload = nil
	}
	if err := s.changes.Publish(ctx, stream.Change{RoomID: roomID, Kind: stream.KindGift, Payload: payload}); err != nil {
		slog.Error("publish gift change", "room_id", roomID, "error", err)
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
