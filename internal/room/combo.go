package room

import (
	"sort"
	"sync"
	"time"
)

// ComboSession tracks one repeat-fire run of a single gift to a fixed
// recipient set.
type ComboSession struct {
	GiftID       string    `json:"giftId"`
	RecipientIDs []string  `json:"recipientIds"`
	HitCount     int       `json:"hitCount"`
	Expiry       time.Time `json:"expiry"`
}

// ComboAggregator is the per-client combo state machine. A hit on the
// active (gift, recipients) pair increments the count and refreshes the
// full window; anything else replaces the session. At most one expiry
// timer is outstanding; re-arming always stops the previous one.
type ComboAggregator struct {
	mu       sync.Mutex
	window   time.Duration
	onExpire func(ComboSession)

	session *ComboSession
	timer   *time.Timer
	gen     uint64
}

func NewComboAggregator(window time.Duration, onExpire func(ComboSession)) *ComboAggregator {
	return &ComboAggregator{window: window, onExpire: onExpire}
}

// Hit drives the state machine and returns the resulting session snapshot.
func (a *ComboAggregator) Hit(giftID string, recipientIDs []string) ComboSession {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	if a.session != nil && a.session.GiftID == giftID && sameRecipients(a.session.RecipientIDs, recipientIDs) {
		a.session.HitCount++
	} else {
		ids := make([]string, len(recipientIDs))
		copy(ids, recipientIDs)
		a.session = &ComboSession{GiftID: giftID, RecipientIDs: ids, HitCount: 1}
	}
	a.session.Expiry = now.Add(a.window)

	a.gen++
	gen := a.gen
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.window, func() { a.expire(gen) })

	return *a.session
}

// Active returns the current session, if any.
func (a *ComboAggregator) Active() (ComboSession, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return ComboSession{}, false
	}
	return *a.session, true
}

// Clear drops the session and cancels the pending expiry. Used on teardown
// and when a hit's transaction is rejected.
func (a *ComboAggregator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.session = nil
}

func (a *ComboAggregator) expire(gen uint64) {
	a.mu.Lock()
	// A stale callback that lost the Stop race must not touch a refreshed
	// session.
	if gen != a.gen || a.session == nil {
		a.mu.Unlock()
		return
	}
	ended := *a.session
	a.session = nil
	a.timer = nil
	a.mu.Unlock()

	if a.onExpire != nil {
		a.onExpire(ended)
	}
}

func sameRecipients(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := make([]string, len(a))
	bs := make([]string, len(b))
	copy(as, a)
	copy(bs, b)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
