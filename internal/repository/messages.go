package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aura-social/liveroom/internal/domain"
)

type MessageRepo struct {
	db *pgxpool.Pool
}

func NewMessageRepo(db *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{db: db}
}

// Insert appends a message; the timestamp is assigned by the database so
// client clock skew never reorders history.
func (r *MessageRepo) Insert(ctx context.Context, msg *domain.RoomMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Type == "" {
		msg.Type = "text"
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO room_messages (id, room_id, user_id, user_name, wealth_level,
		                           recharge_level, is_vip, msg_type, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`, msg.ID, msg.RoomID, msg.UserID, msg.UserName, msg.WealthLevel,
		msg.RechargeLevel, msg.IsVIP, msg.Type, msg.Content).Scan(&msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListSince returns messages at or after the session start, oldest first.
// Earlier history is never delivered.
func (r *MessageRepo) ListSince(ctx context.Context, roomID string, since time.Time, limit int) ([]domain.RoomMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, room_id, user_id, user_name, wealth_level, recharge_level,
		       is_vip, msg_type, content, created_at
		FROM room_messages
		WHERE room_id = $1 AND created_at >= $2
		ORDER BY created_at ASC
		LIMIT $3
	`, roomID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.RoomMessage
	for rows.Next() {
		var m domain.RoomMessage
		if err := rows.Scan(&m.ID, &m.RoomID, &m.UserID, &m.UserName, &m.WealthLevel,
			&m.RechargeLevel, &m.IsVIP, &m.Type, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
