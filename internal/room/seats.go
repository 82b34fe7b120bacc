package room

import (
	"github.com/aura-social/liveroom/internal/config"
	"github.com/aura-social/liveroom/internal/domain"
)

// MicCount returns the room's effective seat capacity.
func MicCount(r *domain.Room) int {
	if r.MicCount <= 0 {
		return config.DefaultMicCount
	}
	return r.MicCount
}

// SeatsView derives the seat array from room state: index i holds the
// speaker seated at i, or nil. Recomputed from the current snapshot on
// every call, never cached.
func SeatsView(r *domain.Room) []*domain.Speaker {
	seats := make([]*domain.Speaker, MicCount(r))
	for i := range r.Speakers {
		s := &r.Speakers[i]
		if s.SeatIndex >= 0 && s.SeatIndex < len(seats) && seats[s.SeatIndex] == nil {
			seats[s.SeatIndex] = s
		}
	}
	return seats
}

// Assign seats user at seatIndex and returns the full replacement speaker
// set. An occupied target is rejected with ErrSeatOccupied; callers route
// that to the profile sheet instead. Moving seats removes the user's old
// record and keeps their charm and mute state in the new one, as a single
// set replacement.
func Assign(r *domain.Room, seatIndex int, user *domain.User, muted bool) ([]domain.Speaker, error) {
	if seatIndex < 0 || seatIndex >= MicCount(r) {
		return nil, domain.ErrSeatOutOfRange
	}
	for _, s := range r.Speakers {
		if s.SeatIndex == seatIndex {
			return nil, domain.ErrSeatOccupied
		}
	}

	var charm int64
	if prev := r.SpeakerByUserID(user.ID); prev != nil {
		charm = prev.Charm
	}

	out := make([]domain.Speaker, 0, len(r.Speakers)+1)
	for _, s := range r.Speakers {
		if s.ID != user.ID {
			out = append(out, s)
		}
	}
	out = append(out, domain.Speaker{
		ID:        user.ID,
		Name:      user.Name,
		Avatar:    user.Avatar,
		SeatIndex: seatIndex,
		Muted:     muted,
		Charm:     charm,
	})
	return CleanAll(out), nil
}

// Remove drops the user's speaker record, if any.
func Remove(r *domain.Room, userID string) []domain.Speaker {
	out := make([]domain.Speaker, 0, len(r.Speakers))
	for _, s := range r.Speakers {
		if s.ID != userID {
			out = append(out, s)
		}
	}
	return CleanAll(out)
}

// Shrink drops every speaker whose seat no longer fits under newCount.
// Silent truncation: a bumped speaker loses the seat and the charm recorded
// on it. Survivors are unchanged.
func Shrink(r *domain.Room, newCount int) []domain.Speaker {
	out := make([]domain.Speaker, 0, len(r.Speakers))
	for _, s := range r.Speakers {
		if s.SeatIndex < newCount {
			out = append(out, s)
		}
	}
	return CleanAll(out)
}

// ResetAllCharm zeroes charm for every speaker.
func ResetAllCharm(r *domain.Room) []domain.Speaker {
	out := make([]domain.Speaker, 0, len(r.Speakers))
	for _, s := range r.Speakers {
		s.Charm = 0
		out = append(out, s)
	}
	return CleanAll(out)
}

// UnmuteAll opens every mic.
func UnmuteAll(r *domain.Room) []domain.Speaker {
	out := make([]domain.Speaker, 0, len(r.Speakers))
	for _, s := range r.Speakers {
		s.Muted = false
		out = append(out, s)
	}
	return CleanAll(out)
}
