package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aura-social/liveroom/internal/domain"
	"github.com/aura-social/liveroom/internal/stream"
)

// fakeGiftStore applies send orders against an in-memory balance with the
// same all-or-nothing contract as the Postgres store.
type fakeGiftStore struct {
	applied  []domain.GiftSend
	failWith error
}

func (f *fakeGiftStore) ApplyGiftSend(_ context.Context, order domain.GiftSend) (*domain.User, *domain.GiftEvent, error) {
	if f.failWith != nil {
		return nil, nil, f.failWith
	}
	if order.Sender.Coins < order.TotalCost {
		return nil, nil, domain.ErrInsufficientBalance
	}
	f.applied = append(f.applied, order)

	updated := order.Sender
	updated.Coins -= order.TotalCost
	ev := &domain.GiftEvent{
		ID:           uuid.NewString(),
		RoomID:       order.RoomID,
		GiftID:       order.Gift.ID,
		SenderID:     order.Sender.ID,
		RecipientIDs: order.RecipientIDs,
		Quantity:     order.Quantity,
		CreatedAt:    time.Now(),
	}
	return &updated, ev, nil
}

type rankCall struct {
	roomID, userID string
	amount         int64
}

type fakeRank struct {
	calls []rankCall
}

func (f *fakeRank) RecordContribution(_ context.Context, roomID, userID string, amount int64) {
	f.calls = append(f.calls, rankCall{roomID, userID, amount})
}

type fakePublisher struct {
	changes []stream.Change
}

func (f *fakePublisher) Publish(_ context.Context, c stream.Change) error {
	f.changes = append(f.changes, c)
	return nil
}

type fakeAlerts struct {
	economic []error
	room     []error
}

func (f *fakeAlerts) EconomicWriteFailure(err error, _ string) {
	f.economic = append(f.economic, err)
}

func (f *fakeAlerts) RoomUpdateFailure(err error, _ string) {
	f.room = append(f.room, err)
}

// fakeRoomStore holds rooms in memory and records replacement writes.
type fakeRoomStore struct {
	rooms       map[string]*domain.Room
	failWrites  error
	replaced    [][]domain.Speaker
	layoutCalls []int
}

func newFakeRoomStore(rooms ...*domain.Room) *fakeRoomStore {
	m := make(map[string]*domain.Room, len(rooms))
	for _, r := range rooms {
		m[r.ID] = r
	}
	return &fakeRoomStore{rooms: m}
}

func (f *fakeRoomStore) Get(_ context.Context, id string) (*domain.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	cp := *r
	cp.Speakers = append([]domain.Speaker(nil), r.Speakers...)
	return &cp, nil
}

func (f *fakeRoomStore) Create(_ context.Context, rm *domain.Room) error {
	f.rooms[rm.ID] = rm
	return nil
}

func (f *fakeRoomStore) ReplaceSpeakers(_ context.Context, roomID string, speakers []domain.Speaker) error {
	if f.failWrites != nil {
		return f.failWrites
	}
	r, ok := f.rooms[roomID]
	if !ok {
		return domain.ErrRoomNotFound
	}
	r.Speakers = speakers
	f.replaced = append(f.replaced, speakers)
	return nil
}

func (f *fakeRoomStore) SetMicLayout(_ context.Context, roomID string, micCount int, speakers []domain.Speaker) error {
	if f.failWrites != nil {
		return f.failWrites
	}
	r, ok := f.rooms[roomID]
	if !ok {
		return domain.ErrRoomNotFound
	}
	r.MicCount = micCount
	r.Speakers = speakers
	f.layoutCalls = append(f.layoutCalls, micCount)
	return nil
}

type fakeUserStore struct {
	users map[string]*domain.User
}

func (f *fakeUserStore) Get(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}
