package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aura-social/liveroom/internal/domain"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, name, avatar, coins, wealth, wealth_level, recharge_level, is_vip, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Avatar, &u.Coins, &u.Wealth,
		&u.WealthLevel, &u.RechargeLevel, &u.IsVIP, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) Upsert(ctx context.Context, u *domain.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, name, avatar, coins, wealth, wealth_level, recharge_level, is_vip)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			avatar = EXCLUDED.avatar,
			updated_at = now()
	`, u.ID, u.Name, u.Avatar, u.Coins, u.Wealth, u.WealthLevel, u.RechargeLevel, u.IsVIP)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
