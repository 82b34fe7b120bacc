package domain

import "time"

type RoomMessage struct {
	ID            string    `json:"id"`
	RoomID        string    `json:"roomId"`
	UserID        string    `json:"userId"`
	UserName      string    `json:"userName"`
	WealthLevel   int       `json:"userWealthLevel"`
	RechargeLevel int       `json:"userRechargeLevel"`
	IsVIP         bool      `json:"userVip"`
	Type          string    `json:"type"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"timestamp"`
}
