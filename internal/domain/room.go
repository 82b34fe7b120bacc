package domain

import "time"

// Speaker is a user currently occupying a seat. Charm accumulates from
// received gifts and lives on this record, not on the user.
type Speaker struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	SeatIndex int    `json:"seatIndex"`
	Muted     bool   `json:"isMuted"`
	Charm     int64  `json:"charm"`
}

type Room struct {
	ID         string    `json:"id"`
	HostID     string    `json:"hostId"`
	Title      string    `json:"title"`
	Background string    `json:"background"`
	MicCount   int       `json:"micCount"`
	Speakers   []Speaker `json:"speakers"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SpeakerByUserID returns the speaker record for the given user, or nil.
// A user holds at most one seat at a time.
func (r *Room) SpeakerByUserID(userID string) *Speaker {
	for i := range r.Speakers {
		if r.Speakers[i].ID == userID {
			return &r.Speakers[i]
		}
	}
	return nil
}

func (r *Room) IsHost(userID string) bool {
	return r.HostID != "" && r.HostID == userID
}
