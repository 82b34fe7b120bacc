package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aura-social/liveroom/internal/domain"
	"github.com/aura-social/liveroom/internal/stream"
)

type RoomLoader interface {
	Get(ctx context.Context, id string) (*domain.Room, error)
}

type ChangeSubscriber interface {
	Subscribe(ctx context.Context, roomID string) (<-chan stream.Change, func(), error)
}

type Broadcaster interface {
	BroadcastToRoom(roomID string, data []byte)
}

// Synchronizer keeps every connected client's view of a room current. It
// subscribes to the room's change stream, reloads the full state on each
// notice (speakers pass through the sanitizer in the repository), replaces
// the canonical snapshot wholesale and fans it out. Nothing is applied
// optimistically: a mutation becomes visible only once its change notice
// round-trips.
type Synchronizer struct {
	rooms RoomLoader
	sub   ChangeSubscriber
	hub   Broadcaster
}

func NewSynchronizer(rooms RoomLoader, sub ChangeSubscriber, hub Broadcaster) *Synchronizer {
	return &Synchronizer{rooms: rooms, sub: sub, hub: hub}
}

// Envelope is the wire frame pushed to room clients.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Run drives one room's subscription until ctx is cancelled. The
// subscription starts at call time, so nothing published earlier is ever
// delivered.
func (s *Synchronizer) Run(ctx context.Context, roomID string) error {
	changes, stop, err := s.sub.Subscribe(ctx, roomID)
	if err != nil {
		return err
	}
	defer stop()

	// Initial full snapshot so late joiners see current state immediately.
	s.pushRoom(ctx, roomID)

	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			switch c.Kind {
			case stream.KindRoom:
				s.pushRoom(ctx, roomID)
			case stream.KindMessage:
				// Only the new message fans out, and only to clients
				// connected right now; history stays a per-client fetch
				// scoped to the client's own join instant.
				if len(c.Payload) > 0 {
					s.push(roomID, "message", c.Payload)
				}
			case stream.KindGift:
				// The event rides inline; the room snapshot follows because
				// charm changed with the same commit.
				if len(c.Payload) > 0 {
					s.push(roomID, "gift", c.Payload)
				}
				s.pushRoom(ctx, roomID)
			}
		}
	}
}

func (s *Synchronizer) pushRoom(ctx context.Context, roomID string) {
	rm, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		slog.Error("reload room snapshot", "room_id", roomID, "error", err)
		return
	}
	raw, err := json.Marshal(rm)
	if err != nil {
		slog.Error("encode room snapshot", "room_id", roomID, "error", err)
		return
	}
	s.push(roomID, "room", raw)
}

func (s *Synchronizer) push(roomID, kind string, data json.RawMessage) {
	raw, err := json.Marshal(Envelope{Type: kind, Data: data})
	if err != nil {
		slog.Error("encode envelope", "room_id", roomID, "error", err)
		return
	}
	s.hub.BroadcastToRoom(roomID, raw)
}

// SyncManager runs at most one Synchronizer per room, started when the
// first client connects and stopped when the last one leaves.
type SyncManager struct {
	base context.Context
	sync *Synchronizer

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

func NewSyncManager(base context.Context, s *Synchronizer) *SyncManager {
	return &SyncManager{base: base, sync: s, cancels: make(map[string]context.CancelFunc)}
}

func (m *SyncManager) RoomActive(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, running := m.cancels[roomID]; running {
		return
	}
	ctx, cancel := context.WithCancel(m.base)
	m.cancels[roomID] = cancel
	go func() {
		if err := m.sync.Run(ctx, roomID); err != nil {
			slog.Error("room synchronizer stopped", "room_id", roomID, "error", err)
		}
		m.mu.Lock()
		if c, ok := m.cancels[roomID]; ok {
			c()
			delete(m.cancels, roomID)
		}
		m.mu.Unlock()
	}()
}

func (m *SyncManager) RoomIdle(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cancel, ok := m.cancels[roomID]; ok {
		cancel()
		delete(m.cancels, roomID)
	}
}
