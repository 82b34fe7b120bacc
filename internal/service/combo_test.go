package service_test

import (
	"testing"
	"time"

	"github.com/aura-social/liveroom/internal/room"
	"github.com/aura-social/liveroom/internal/service"

	"github.com/stretchr/testify/require"
)

func TestComboService_HitCreatesAndIncrements(t *testing.T) {
	svc := service.NewComboService(time.Minute, nil)

	s := svc.Hit("r1", "u1", "g1", []string{"a"})
	require.Equal(t, 1, s.HitCount)

	s = svc.Hit("r1", "u1", "g1", []string{"a"})
	require.Equal(t, 2, s.HitCount)

	// Different clients do not share sessions.
	s = svc.Hit("r1", "u2", "g1", []string{"a"})
	require.Equal(t, 1, s.HitCount)
}

func TestComboService_ClearDropsSession(t *testing.T) {
	svc := service.NewComboService(time.Minute, nil)
	svc.Hit("r1", "u1", "g1", []string{"a"})

	svc.Clear("r1", "u1")
	_, ok := svc.Active("r1", "u1")
	require.False(t, ok)
}

func TestComboService_OnEndFiresAfterExpiry(t *testing.T) {
	ended := make(chan room.ComboSession, 1)
	svc := service.NewComboService(50*time.Millisecond, func(roomID, userID string, s room.ComboSession) {
		ended <- s
	})
	svc.Hit("r1", "u1", "g1", []string{"a"})

	select {
	case s := <-ended:
		require.Equal(t, 1, s.HitCount)
	case <-time.After(2 * time.Second):
		t.Fatal("session never ended")
	}
	_, ok := svc.Active("r1", "u1")
	require.False(t, ok)
}

// A rapid hit sequence with a short window races every hit against the
// previous hit's expiry timer. The timer is armed no earlier than the
// moment its hit was issued and never fires before the window elapses, so
// a hit that observes HitCount==1 strictly before prevStart+window proves
// a stale expiry tore down a live session.
func TestComboService_RapidHitsNeverResetInsideWindow(t *testing.T) {
	const window = 50 * time.Microsecond
	svc := service.NewComboService(window, nil)

	prevStart := time.Now()
	svc.Hit("r1", "u1", "g1", []string{"a"})

	for i := 0; i < 200000; i++ {
		start := time.Now()
		s := svc.Hit("r1", "u1", "g1", []string{"a"})
		end := time.Now()
		if s.HitCount == 1 && end.Before(prevStart.Add(window)) {
			t.Fatalf("iteration %d: session reset before the previous window could expire", i)
		}
		prevStart = start
	}
}
