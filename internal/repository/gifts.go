package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aura-social/liveroom/internal/domain"
)

type GiftRepo struct {
	db *pgxpool.Pool
}

func NewGiftRepo(db *pgxpool.Pool) *GiftRepo {
	return &GiftRepo{db: db}
}

func (r *GiftRepo) Get(ctx context.Context, id string) (*domain.Gift, error) {
	var g domain.Gift
	err := r.db.QueryRow(ctx, `
		SELECT id, name, icon, animation, cost FROM gifts WHERE id = $1
	`, id).Scan(&g.ID, &g.Name, &g.Icon, &g.Animation, &g.Cost)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrGiftNotFound
		}
		return nil, fmt.Errorf("get gift: %w", err)
	}
	return &g, nil
}

func (r *GiftRepo) List(ctx context.Context) ([]domain.Gift, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, icon, animation, cost FROM gifts ORDER BY cost
	`)
	if err != nil {
		return nil, fmt.Errorf("list gifts: %w", err)
	}
	defer rows.Close()

	var gifts []domain.Gift
	for rows.Next() {
		var g domain.Gift
		if err := rows.Scan(&g.ID, &g.Name, &g.Icon, &g.Animation, &g.Cost); err != nil {
			return nil, fmt.Errorf("scan gift: %w", err)
		}
		gifts = append(gifts, g)
	}
	return gifts, rows.Err()
}

// TopContributors reads the persisted ledger directly; the Redis zset is
// the fast path and this is its source of truth.
func (r *GiftRepo) TopContributors(ctx context.Context, roomID string, limit int) ([]domain.ContributionRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT room_id, user_id, name, avatar, amount, updated_at
		FROM room_contributors
		WHERE room_id = $1
		ORDER BY amount DESC
		LIMIT $2
	`, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("top contributors: %w", err)
	}
	defer rows.Close()

	var recs []domain.ContributionRecord
	for rows.Next() {
		var c domain.ContributionRecord
		if err := rows.Scan(&c.RoomID, &c.UserID, &c.Name, &c.Avatar, &c.Amount, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan contributor: %w", err)
		}
		recs = append(recs, c)
	}
	return recs, rows.Err()
}

// RecentEvents returns the room's latest gift events, newest first.
func (r *GiftRepo) RecentEvents(ctx context.Context, roomID string, limit int) ([]domain.GiftEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, room_id, gift_id, gift_name, gift_icon, animation,
		       sender_id, sender_name, recipient_ids, quantity, created_at
		FROM gift_events
		WHERE room_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent gift events: %w", err)
	}
	defer rows.Close()

	var events []domain.GiftEvent
	for rows.Next() {
		var ev domain.GiftEvent
		if err := rows.Scan(&ev.ID, &ev.RoomID, &ev.GiftID, &ev.GiftName, &ev.GiftIcon,
			&ev.Animation, &ev.SenderID, &ev.SenderName, &ev.RecipientIDs, &ev.Quantity, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan gift event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
