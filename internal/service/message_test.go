package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aura-social/liveroom/internal/domain"
	"github.com/aura-social/liveroom/internal/service"
	"github.com/aura-social/liveroom/internal/stream"

	"github.com/stretchr/testify/require"
)

type fakeMessageStore struct {
	inserted []domain.RoomMessage
}

func (f *fakeMessageStore) Insert(_ context.Context, msg *domain.RoomMessage) error {
	msg.ID = "m1"
	msg.CreatedAt = time.Now()
	f.inserted = append(f.inserted, *msg)
	return nil
}

func (f *fakeMessageStore) ListSince(_ context.Context, _ string, since time.Time, limit int) ([]domain.RoomMessage, error) {
	var out []domain.RoomMessage
	for _, m := range f.inserted {
		if !m.CreatedAt.Before(since) {
			out = append(out, m)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func TestMessageSend_StampsLevelsAndPublishesPayload(t *testing.T) {
	store := &fakeMessageStore{}
	pub := &fakePublisher{}
	users := &fakeUserStore{users: map[string]*domain.User{
		"u1": {ID: "u1", Name: "Alice", WealthLevel: 3, RechargeLevel: 2, IsVIP: true},
	}}
	svc := service.NewMessageService(store, users, pub)

	msg, err := svc.Send(context.Background(), "r1", "u1", "  hello  ")
	require.NoError(t, err)
	require.Equal(t, "hello", msg.Content)
	require.Equal(t, 3, msg.WealthLevel)
	require.True(t, msg.IsVIP)

	require.Len(t, pub.changes, 1)
	change := pub.changes[0]
	require.Equal(t, stream.KindMessage, change.Kind)

	// The notice carries the message itself; the synchronizer fans it out
	// without a history reload.
	var carried domain.RoomMessage
	require.NoError(t, json.Unmarshal(change.Payload, &carried))
	require.Equal(t, "hello", carried.Content)
	require.Equal(t, "u1", carried.UserID)
}

func TestMessageSend_BlankContentIsNoOp(t *testing.T) {
	store := &fakeMessageStore{}
	pub := &fakePublisher{}
	users := &fakeUserStore{users: map[string]*domain.User{"u1": {ID: "u1"}}}
	svc := service.NewMessageService(store, users, pub)

	msg, err := svc.Send(context.Background(), "r1", "u1", "   ")
	require.NoError(t, err)
	require.Nil(t, msg)
	require.Empty(t, store.inserted)
	require.Empty(t, pub.changes)
}
