package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SettingsRepo struct {
	db *pgxpool.Pool
}

func NewSettingsRepo(db *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// MicSkins maps layout size to a skin asset reference. A missing document
// or entry is not an error; callers fall back to the default visual.
func (r *SettingsRepo) MicSkins(ctx context.Context) (map[int]string, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT value FROM app_settings WHERE key = 'micSkins'`).Scan(&raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return map[int]string{}, nil
		}
		return nil, fmt.Errorf("get mic skins: %w", err)
	}

	var byKey map[string]string
	if err := json.Unmarshal(raw, &byKey); err != nil {
		return nil, fmt.Errorf("decode mic skins: %w", err)
	}
	skins := make(map[int]string, len(byKey))
	for k, v := range byKey {
		n, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		skins[n] = v
	}
	return skins, nil
}
