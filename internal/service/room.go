package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aura-social/liveroom/internal/config"
	"github.com/aura-social/liveroom/internal/domain"
	"github.com/aura-social/liveroom/internal/room"
	"github.com/aura-social/liveroom/internal/stream"
)

type RoomStore interface {
	Get(ctx context.Context, id string) (*domain.Room, error)
	Create(ctx context.Context, rm *domain.Room) error
	ReplaceSpeakers(ctx context.Context, roomID string, speakers []domain.Speaker) error
	SetMicLayout(ctx context.Context, roomID string, micCount int, speakers []domain.Speaker) error
}

type UserStore interface {
	Get(ctx context.Context, id string) (*domain.User, error)
}

// RoomAlerter mirrors failed host-initiated structural writes to ops.
type RoomAlerter interface {
	RoomUpdateFailure(err error, detail string)
}

type RoomService struct {
	rooms   RoomStore
	users   UserStore
	changes ChangePublisher
	alerts  RoomAlerter
}

func NewRoomService(rooms RoomStore, users UserStore, changes ChangePublisher, alerts RoomAlerter) *RoomService {
	return &RoomService{rooms: rooms, users: users, changes: changes, alerts: alerts}
}

func (s *RoomService) Get(ctx context.Context, id string) (*domain.Room, error) {
	return s.rooms.Get(ctx, id)
}

func (s *RoomService) Create(ctx context.Context, hostID, title string, micCount int) (*domain.Room, error) {
	if micCount == 0 {
		micCount = config.DefaultMicCount
	}
	if !config.ValidMicCount(micCount) {
		return nil, domain.ErrInvalidMicCount
	}
	if _, err := s.users.Get(ctx, hostID); err != nil {
		return nil, err
	}
	rm := &domain.Room{
		ID:       uuid.NewString(),
		HostID:   hostID,
		Title:    title,
		MicCount: micCount,
	}
	if err := s.rooms.Create(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

// SeatClickResult is either a claimed seat (full replacement set written)
// or a routing hint to the occupant's profile.
type SeatClickResult struct {
	Assigned bool
	Occupant *domain.Speaker
	Speakers []domain.Speaker
}

// SeatClick resolves a tap on seat seatIndex. An occupied seat never
// reassigns; the caller opens the occupant's profile instead.
func (s *RoomService) SeatClick(ctx context.Context, roomID, userID string, seatIndex int, muted bool) (*SeatClickResult, error) {
	rm, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	seats := room.SeatsView(rm)
	if seatIndex < 0 || seatIndex >= len(seats) {
		return nil, domain.ErrSeatOutOfRange
	}
	if occupant := seats[seatIndex]; occupant != nil {
		cp := *occupant
		return &SeatClickResult{Occupant: &cp}, nil
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	speakers, err := room.Assign(rm, seatIndex, user, muted)
	if err != nil {
		return nil, err
	}
	if err := s.rooms.ReplaceSpeakers(ctx, roomID, speakers); err != nil {
		return nil, fmt.Errorf("assign seat: %w", err)
	}

	s.publishRoomChange(ctx, roomID)
	return &SeatClickResult{Assigned: true, Speakers: speakers}, nil
}

// LeaveSeat drops the caller's speaker record, if any.
func (s *RoomService) LeaveSeat(ctx context.Context, roomID, userID string) error {
	rm, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if rm.SpeakerByUserID(userID) == nil {
		return nil
	}
	if err := s.rooms.ReplaceSpeakers(ctx, roomID, room.Remove(rm, userID)); err != nil {
		return fmt.Errorf("leave seat: %w", err)
	}
	s.publishRoomChange(ctx, roomID)
	return nil
}

// SetMicLayout switches the room to one of the fixed capacities. Speakers
// whose seat no longer exists are silently truncated, charm included.
func (s *RoomService) SetMicLayout(ctx context.Context, roomID, callerID string, micCount int) error {
	if !config.ValidMicCount(micCount) {
		return domain.ErrInvalidMicCount
	}
	rm, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if !rm.IsHost(callerID) {
		return domain.ErrNotHost
	}
	if err := s.rooms.SetMicLayout(ctx, roomID, micCount, room.Shrink(rm, micCount)); err != nil {
		s.alerts.RoomUpdateFailure(err, fmt.Sprintf("mic layout %d for room %s", micCount, roomID))
		return fmt.Errorf("set mic layout: %w", err)
	}
	s.publishRoomChange(ctx, roomID)
	return nil
}

// ResetAllCharm zeroes charm for every seated speaker. No-op without
// speakers.
func (s *RoomService) ResetAllCharm(ctx context.Context, roomID, callerID string) error {
	rm, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if !rm.IsHost(callerID) {
		return domain.ErrNotHost
	}
	if len(rm.Speakers) == 0 {
		return nil
	}
	if err := s.rooms.ReplaceSpeakers(ctx, roomID, room.ResetAllCharm(rm)); err != nil {
		s.alerts.RoomUpdateFailure(err, "reset charm for room "+roomID)
		return fmt.Errorf("reset charm: %w", err)
	}
	s.publishRoomChange(ctx, roomID)
	return nil
}

// OpenAllMics unmutes every seated speaker. No-op without speakers.
func (s *RoomService) OpenAllMics(ctx context.Context, roomID, callerID string) error {
	rm, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if !rm.IsHost(callerID) {
		return domain.ErrNotHost
	}
	if len(rm.Speakers) == 0 {
		return nil
	}
	if err := s.rooms.ReplaceSpeakers(ctx, roomID, room.UnmuteAll(rm)); err != nil {
		s.alerts.RoomUpdateFailure(err, "open mics for room "+roomID)
		return fmt.Errorf("open mics: %w", err)
	}
	s.publishRoomChange(ctx, roomID)
	return nil
}

func (s *RoomService) publishRoomChange(ctx context.Context, roomID string) {
	if err := s.changes.Publish(ctx, stream.Change{RoomID: roomID, Kind: stream.KindRoom}); err != nil {
		// The write is committed; peers catch up on the next change.
		s.alerts.RoomUpdateFailure(err, "publish change for room "+roomID)
	}
}
