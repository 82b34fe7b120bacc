package room_test

import (
	"testing"
	"time"

	"github.com/aura-social/liveroom/internal/room"

	"github.com/stretchr/testify/require"
)

const testWindow = 80 * time.Millisecond

func TestCombo_FirstHitOpensSession(t *testing.T) {
	a := room.NewComboAggregator(testWindow, nil)
	defer a.Clear()

	before := time.Now()
	s := a.Hit("g1", []string{"u1"})

	require.Equal(t, 1, s.HitCount)
	require.Equal(t, "g1", s.GiftID)
	require.Equal(t, []string{"u1"}, s.RecipientIDs)
	require.WithinDuration(t, before.Add(testWindow), s.Expiry, 30*time.Millisecond)
}

func TestCombo_MatchingHitIncrementsAndRefreshesWindow(t *testing.T) {
	a := room.NewComboAggregator(testWindow, nil)
	defer a.Clear()

	a.Hit("g1", []string{"u1", "u2"})
	time.Sleep(30 * time.Millisecond)

	before := time.Now()
	s := a.Hit("g1", []string{"u2", "u1"}) // same set, order-insensitive

	require.Equal(t, 2, s.HitCount)
	// full window from the hit, not from session start
	require.WithinDuration(t, before.Add(testWindow), s.Expiry, 30*time.Millisecond)
}

func TestCombo_DifferentGiftReplacesSession(t *testing.T) {
	a := room.NewComboAggregator(testWindow, nil)
	defer a.Clear()

	a.Hit("g1", []string{"u1"})
	a.Hit("g1", []string{"u1"})
	s := a.Hit("g2", []string{"u1"})

	require.Equal(t, 1, s.HitCount)
	require.Equal(t, "g2", s.GiftID)
}

func TestCombo_DifferentRecipientsReplacesSession(t *testing.T) {
	a := room.NewComboAggregator(testWindow, nil)
	defer a.Clear()

	a.Hit("g1", []string{"u1"})
	s := a.Hit("g1", []string{"u1", "u2"})

	require.Equal(t, 1, s.HitCount)
}

func TestCombo_ExpiresToIdle(t *testing.T) {
	expired := make(chan room.ComboSession, 1)
	a := room.NewComboAggregator(testWindow, func(s room.ComboSession) {
		expired <- s
	})
	defer a.Clear()

	a.Hit("g1", []string{"u1"})
	a.Hit("g1", []string{"u1"})

	select {
	case s := <-expired:
		require.Equal(t, 2, s.HitCount)
	case <-time.After(10 * testWindow):
		t.Fatal("session never expired")
	}

	_, active := a.Active()
	require.False(t, active)
}

func TestCombo_HitExtendsSessionPastFirstDeadline(t *testing.T) {
	expired := make(chan room.ComboSession, 1)
	a := room.NewComboAggregator(testWindow, func(s room.ComboSession) {
		expired <- s
	})
	defer a.Clear()

	a.Hit("g1", []string{"u1"})
	time.Sleep(testWindow / 2)
	a.Hit("g1", []string{"u1"})
	time.Sleep(testWindow * 3 / 4) // past the first expiry, inside the second

	s, active := a.Active()
	require.True(t, active, "refreshed session expired early")
	require.Equal(t, 2, s.HitCount)
	require.Empty(t, expired)
}

func TestCombo_ClearCancelsTimer(t *testing.T) {
	expired := make(chan room.ComboSession, 1)
	a := room.NewComboAggregator(testWindow, func(s room.ComboSession) {
		expired <- s
	})

	a.Hit("g1", []string{"u1"})
	a.Clear()

	_, active := a.Active()
	require.False(t, active)

	select {
	case <-expired:
		t.Fatal("expiry fired after Clear")
	case <-time.After(2 * testWindow):
	}
}
