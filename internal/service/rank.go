package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"github.com/aura-social/liveroom/internal/domain"
)

// ContributorSource is the persisted contribution ledger.
type ContributorSource interface {
	TopContributors(ctx context.Context, roomID string, limit int) ([]domain.ContributionRecord, error)
}

// RankService keeps a per-room contribution zset in Redis for cheap rank
// lookups. The SQL ledger stays authoritative; the zset is a cache that
// self-heals as sends come in.
type RankService struct {
	rdb   *redis.Client
	store ContributorSource
}

func NewRankService(rdb *redis.Client, store ContributorSource) *RankService {
	return &RankService{rdb: rdb, store: store}
}

func rankKey(roomID string) string {
	return "room:rank:" + roomID
}

// RecordContribution mirrors a committed send into the zset. Cache-side
// only: a failure degrades rank freshness, not the ledger.
func (s *RankService) RecordContribution(ctx context.Context, roomID, userID string, amount int64) {
	if err := s.rdb.ZIncrBy(ctx, rankKey(roomID), float64(amount), userID).Err(); err != nil {
		slog.Error("rank zset update failed", "room_id", roomID, "user_id", userID, "error", err)
	}
}

// Top returns the room's contributors, highest total first, from the
// persisted ledger.
func (s *RankService) Top(ctx context.Context, roomID string, limit int) ([]domain.ContributionRecord, error) {
	return s.store.TopContributors(ctx, roomID, limit)
}

// Position returns userID's 1-based rank and running total, zset-served.
// A user without contributions ranks 0.
func (s *RankService) Position(ctx context.Context, roomID, userID string) (rank int64, amount int64, err error) {
	key := rankKey(roomID)
	pos, err := s.rdb.ZRevRank(ctx, key, userID).Result()
	if err == redis.Nil {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("rank position: %w", err)
	}
	score, err := s.rdb.ZScore(ctx, key, userID).Result()
	if err != nil && err != redis.Nil {
		return 0, 0, fmt.Errorf("rank score: %w", err)
	}
	return pos + 1, int64(score), nil
}
