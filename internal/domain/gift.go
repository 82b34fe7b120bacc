package domain

import "time"

type Gift struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Animation string `json:"animation"`
	Cost      int64  `json:"cost"`
}

// GiftEvent is an append-only audit entry; never mutated after creation.
type GiftEvent struct {
	ID           string    `json:"id"`
	RoomID       string    `json:"roomId"`
	GiftID       string    `json:"giftId"`
	GiftName     string    `json:"giftName"`
	GiftIcon     string    `json:"giftIcon"`
	Animation    string    `json:"animation"`
	SenderID     string    `json:"senderId"`
	SenderName   string    `json:"senderName"`
	RecipientIDs []string  `json:"recipientIds"`
	Quantity     int       `json:"quantity"`
	CreatedAt    time.Time `json:"timestamp"`
}

// GiftSend is the fully priced instruction handed to the store. The store
// applies debit, contribution, event and charm as one unit; either every
// row changes or none does.
type GiftSend struct {
	RoomID       string
	Sender       User
	Gift         Gift
	RecipientIDs []string
	Quantity     int
	TotalCost    int64
	// CharmDelta is credited to every seated recipient: gift cost times
	// quantity, independent of recipient count.
	CharmDelta int64
}

// ContributionRecord tracks coins a sender has spent in a room. Amount is
// merge-incremented across sends, never overwritten.
type ContributionRecord struct {
	RoomID    string    `json:"roomId"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Amount    int64     `json:"amount"`
	UpdatedAt time.Time `json:"timestamp"`
}
