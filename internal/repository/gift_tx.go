package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aura-social/liveroom/internal/domain"
	"github.com/aura-social/liveroom/internal/room"
)

// ApplyGiftSend executes the economic side of one gift send as a single
// transaction: debit the sender under a row lock, merge-increment the
// contribution record, append the gift event and credit charm to seated
// recipients. Partial application is never observable; the debit shares
// the same commit as the batched writes, so a paid-but-unrecorded send
// cannot happen.
func (r *GiftRepo) ApplyGiftSend(ctx context.Context, order domain.GiftSend) (*domain.User, *domain.GiftEvent, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	sender, err := debitSender(ctx, tx, order.Sender.ID, order.TotalCost)
	if err != nil {
		return nil, nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO room_contributors (room_id, user_id, name, avatar, amount, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (room_id, user_id) DO UPDATE SET
			amount = room_contributors.amount + EXCLUDED.amount,
			name = EXCLUDED.name,
			avatar = EXCLUDED.avatar,
			updated_at = now()
	`, order.RoomID, sender.ID, sender.Name, sender.Avatar, order.TotalCost)
	if err != nil {
		return nil, nil, fmt.Errorf("merge contribution: %w", err)
	}

	ev := &domain.GiftEvent{
		ID:           uuid.NewString(),
		RoomID:       order.RoomID,
		GiftID:       order.Gift.ID,
		GiftName:     order.Gift.Name,
		GiftIcon:     order.Gift.Icon,
		Animation:    order.Gift.Animation,
		SenderID:     sender.ID,
		SenderName:   sender.Name,
		RecipientIDs: order.RecipientIDs,
		Quantity:     order.Quantity,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO gift_events (id, room_id, gift_id, gift_name, gift_icon, animation,
		                         sender_id, sender_name, recipient_ids, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`, ev.ID, ev.RoomID, ev.GiftID, ev.GiftName, ev.GiftIcon, ev.Animation,
		ev.SenderID, ev.SenderName, ev.RecipientIDs, ev.Quantity).Scan(&ev.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("append gift event: %w", err)
	}

	if err := creditCharm(ctx, tx, order.RoomID, order.RecipientIDs, order.CharmDelta); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return sender, ev, nil
}

// debitSender locks the sender row and re-checks the stored balance before
// deducting; the caller's pre-check ran against a possibly stale local
// balance. Wealth accrues with coins spent.
func debitSender(ctx context.Context, tx pgx.Tx, userID string, amount int64) (*domain.User, error) {
	var coins int64
	err := tx.QueryRow(ctx, `SELECT coins FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&coins)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("lock sender: %w", err)
	}
	if coins < amount {
		return nil, domain.ErrInsufficientBalance
	}

	u, err := scanUser(tx.QueryRow(ctx, `
		UPDATE users SET coins = coins - $2, wealth = wealth + $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns, userID, amount))
	if err != nil {
		return nil, fmt.Errorf("debit sender: %w", err)
	}
	return u, nil
}

// creditCharm rewrites the room's speaker document with charm credited to
// every seated recipient. A non-seated recipient has no speaker record and
// simply receives no visible increment.
func creditCharm(ctx context.Context, tx pgx.Tx, roomID string, recipientIDs []string, delta int64) error {
	var raw []byte
	err := tx.QueryRow(ctx, `SELECT speakers FROM rooms WHERE id = $1 FOR UPDATE`, roomID).Scan(&raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.ErrRoomNotFound
		}
		return fmt.Errorf("lock room: %w", err)
	}

	speakers, err := decodeSpeakers(raw)
	if err != nil {
		return fmt.Errorf("decode speakers for room %s: %w", roomID, err)
	}

	recipients := make(map[string]bool, len(recipientIDs))
	for _, id := range recipientIDs {
		recipients[id] = true
	}
	for i := range speakers {
		if recipients[speakers[i].ID] {
			speakers[i].Charm += delta
		}
	}

	out, err := json.Marshal(room.CleanAll(speakers))
	if err != nil {
		return fmt.Errorf("encode speakers: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE rooms SET speakers = $2, updated_at = now() WHERE id = $1
	`, roomID, out); err != nil {
		return fmt.Errorf("credit charm: %w", err)
	}
	return nil
}
