package service

import (
	"sync"
	"time"

	"github.com/aura-social/liveroom/internal/room"
)

// ComboService owns one ComboAggregator per client (user within a room).
// The aggregator governs only the UI-facing repeat count and its lifetime;
// every hit is its own economic transaction through GiftService.
type ComboService struct {
	mu       sync.Mutex
	window   time.Duration
	sessions map[string]*room.ComboAggregator
	onEnd    func(roomID, userID string, s room.ComboSession)
}

func NewComboService(window time.Duration, onEnd func(roomID, userID string, s room.ComboSession)) *ComboService {
	return &ComboService{
		window:   window,
		sessions: make(map[string]*room.ComboAggregator),
		onEnd:    onEnd,
	}
}

func comboKey(roomID, userID string) string {
	return roomID + "/" + userID
}

// Hit records one repeat-fire against the client's aggregator, creating it
// on first use. The service lock is held across the aggregator hit so an
// expiry firing concurrently cannot unregister the entry between lookup
// and re-arm.
func (c *ComboService) Hit(roomID, userID, giftID string, recipientIDs []string) room.ComboSession {
	key := comboKey(roomID, userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	agg, ok := c.sessions[key]
	if !ok {
		agg = c.register(key, roomID, userID)
	}
	return agg.Hit(giftID, recipientIDs)
}

// register creates and tracks a new aggregator for key. Its expiry
// callback unregisters only the aggregator it belongs to, and only while
// that aggregator is still idle: a hit that re-armed it after the expiry
// fired keeps the entry, and a newer aggregator under the same key is
// never touched.
func (c *ComboService) register(key, roomID, userID string) *room.ComboAggregator {
	var agg *room.ComboAggregator
	agg = room.NewComboAggregator(c.window, func(s room.ComboSession) {
		c.mu.Lock()
		cur, tracked := c.sessions[key]
		owned := tracked && cur == agg
		if owned {
			if _, active := agg.Active(); active {
				// Re-armed since this expiry fired; the ended run was
				// already superseded by a new session.
				c.mu.Unlock()
				return
			}
			delete(c.sessions, key)
		}
		c.mu.Unlock()

		if owned && c.onEnd != nil {
			c.onEnd(roomID, userID, s)
		}
	})
	c.sessions[key] = agg
	return agg
}

// Clear drops the client's session, cancelling its expiry. Called when a
// hit's transaction is rejected and on client teardown.
func (c *ComboService) Clear(roomID, userID string) {
	c.mu.Lock()
	agg, ok := c.sessions[comboKey(roomID, userID)]
	if ok {
		delete(c.sessions, comboKey(roomID, userID))
	}
	c.mu.Unlock()
	if ok {
		agg.Clear()
	}
}

// Active returns the client's current session, if any.
func (c *ComboService) Active(roomID, userID string) (room.ComboSession, bool) {
	c.mu.Lock()
	agg, ok := c.sessions[comboKey(roomID, userID)]
	c.mu.Unlock()
	if !ok {
		return room.ComboSession{}, false
	}
	return agg.Active()
}
