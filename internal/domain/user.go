package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Avatar        string          `json:"avatar"`
	Coins         int64           `json:"coins"`
	Wealth        decimal.Decimal `json:"wealth"`
	WealthLevel   int             `json:"wealthLevel"`
	RechargeLevel int             `json:"rechargeLevel"`
	IsVIP         bool            `json:"isVip"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// CanAfford reports whether the locally known balance covers cost. The
// stored balance is re-checked under a row lock when the debit runs.
func (u *User) CanAfford(cost int64) bool {
	return u.Coins >= cost
}
