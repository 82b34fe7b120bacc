package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aura-social/liveroom/internal/domain"
	"github.com/aura-social/liveroom/internal/room"
)

// RoomRepo stores rooms with the speaker set as a single JSONB document.
// Speaker mutations are whole-set replacements, never per-field patches;
// the last committed replacement wins in full.
type RoomRepo struct {
	db *pgxpool.Pool
}

func NewRoomRepo(db *pgxpool.Pool) *RoomRepo {
	return &RoomRepo{db: db}
}

func (r *RoomRepo) Get(ctx context.Context, id string) (*domain.Room, error) {
	var (
		rm  domain.Room
		raw []byte
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, host_id, title, background, mic_count, speakers, created_at, updated_at
		FROM rooms WHERE id = $1
	`, id).Scan(&rm.ID, &rm.HostID, &rm.Title, &rm.Background, &rm.MicCount, &raw, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrRoomNotFound
		}
		return nil, fmt.Errorf("get room: %w", err)
	}

	speakers, err := decodeSpeakers(raw)
	if err != nil {
		return nil, fmt.Errorf("decode speakers for room %s: %w", id, err)
	}
	rm.Speakers = speakers
	return &rm, nil
}

func (r *RoomRepo) Create(ctx context.Context, rm *domain.Room) error {
	raw, err := json.Marshal(room.CleanAll(rm.Speakers))
	if err != nil {
		return fmt.Errorf("encode speakers: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO rooms (id, host_id, title, background, mic_count, speakers)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rm.ID, rm.HostID, rm.Title, rm.Background, rm.MicCount, raw)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// ReplaceSpeakers commits a full replacement speaker set.
func (r *RoomRepo) ReplaceSpeakers(ctx context.Context, roomID string, speakers []domain.Speaker) error {
	raw, err := json.Marshal(room.CleanAll(speakers))
	if err != nil {
		return fmt.Errorf("encode speakers: %w", err)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE rooms SET speakers = $2, updated_at = now() WHERE id = $1
	`, roomID, raw)
	if err != nil {
		return fmt.Errorf("replace speakers: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

// SetMicLayout updates capacity and the truncated speaker set in one
// statement, mirroring the layout-selector write.
func (r *RoomRepo) SetMicLayout(ctx context.Context, roomID string, micCount int, speakers []domain.Speaker) error {
	raw, err := json.Marshal(room.CleanAll(speakers))
	if err != nil {
		return fmt.Errorf("encode speakers: %w", err)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE rooms SET mic_count = $2, speakers = $3, updated_at = now() WHERE id = $1
	`, roomID, micCount, raw)
	if err != nil {
		return fmt.Errorf("set mic layout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

// decodeSpeakers tolerates partial or malformed entries: every record goes
// through the sanitizer, so a bad document never poisons the room.
func decodeSpeakers(raw []byte) ([]domain.Speaker, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var recs []map[string]any
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, err
	}
	return room.FromRecords(recs), nil
}
