package config

import "time"

const (
	// Combo repeat-fire window. Every hit refreshes the full window.
	ComboWindow = 5000 * time.Millisecond

	// Seat layout
	DefaultMicCount = 8

	// Chat history page delivered on each message change
	MessagePageLimit = 30

	// Contribution rank page size
	RankPageSize = 50

	// Upper bound on a single gift send
	MaxGiftQuantity = 999

	// Ops alert send timeout
	AlertTimeout = 10 * time.Second

	// WebSocket limits
	MaxWSMessageSize = 1 << 20
	WSReadTimeout    = 300 * time.Second
	WSWriteTimeout   = 10 * time.Second
)

// MicLayouts are the selectable room capacities.
var MicLayouts = []int{8, 10, 15, 20}

// ValidMicCount reports whether n is a selectable layout size.
func ValidMicCount(n int) bool {
	for _, v := range MicLayouts {
		if v == n {
			return true
		}
	}
	return false
}
