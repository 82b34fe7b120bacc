package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aura-social/liveroom/internal/domain"
	"github.com/aura-social/liveroom/internal/stream"
)

type MessageStore interface {
	Insert(ctx context.Context, msg *domain.RoomMessage) error
	ListSince(ctx context.Context, roomID string, since time.Time, limit int) ([]domain.RoomMessage, error)
}

type MessageService struct {
	messages MessageStore
	users    UserStore
	changes  ChangePublisher
}

func NewMessageService(messages MessageStore, users UserStore, changes ChangePublisher) *MessageService {
	return &MessageService{messages: messages, users: users, changes: changes}
}

// Send appends a chat message stamped with the sender's current levels and
// a server-assigned timestamp, then notifies subscribers.
func (s *MessageService) Send(ctx context.Context, roomID, userID, content string) (*domain.RoomMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	msg := &domain.RoomMessage{
		RoomID:        roomID,
		UserID:        user.ID,
		UserName:      user.Name,
		WealthLevel:   user.WealthLevel,
		RechargeLevel: user.RechargeLevel,
		IsVIP:         user.IsVIP,
		Type:          "text",
		Content:       content,
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	// The message rides the notice; subscribers fan it out to connected
	// clients without a reload, so nobody ever receives history from
	// before their own join.
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	if err := s.changes.Publish(ctx, stream.Change{RoomID: roomID, Kind: stream.KindMessage, Payload: payload}); err != nil {
		// Committed; peers catch up on the next change.
		slog.Error("publish message change", "room_id", roomID, "error", err)
	}
	return msg, nil
}

func (s *MessageService) ListSince(ctx context.Context, roomID string, since time.Time, limit int) ([]domain.RoomMessage, error) {
	return s.messages.ListSince(ctx, roomID, since, limit)
}
