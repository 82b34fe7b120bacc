package ws

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/aura-social/liveroom/internal/service"
)

// Hub fans room frames out to connected clients and tells the sync manager
// when a room gains its first client or loses its last one.
type Hub struct {
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound

	// Invoked with the room id on first join / last leave.
	onFirstClient func(roomID string)
	onLastClient  func(roomID string)

	mu sync.RWMutex
}

type outbound struct {
	roomID string
	data   []byte
}

func NewHub(onFirstClient, onLastClient func(roomID string)) *Hub {
	return &Hub{
		rooms:         make(map[string]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		broadcast:     make(chan outbound, 256),
		onFirstClient: onFirstClient,
		onLastClient:  onLastClient,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		case out := <-h.broadcast:
			h.mu.RLock()
			var stale []*Client
			for client := range h.rooms[out.roomID] {
				select {
				case client.send <- out.data:
				default:
					// Send buffer full; drop the client through the
					// normal removal path so room accounting holds.
					stale = append(stale, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range stale {
				h.removeClient(client)
			}
		}
	}
}

// BroadcastToRoom queues one frame for every client in the room.
func (h *Hub) BroadcastToRoom(roomID string, data []byte) {
	h.broadcast <- outbound{roomID: roomID, data: data}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	first := len(h.rooms[client.roomID]) == 0
	if h.rooms[client.roomID] == nil {
		h.rooms[client.roomID] = make(map[*Client]bool)
	}
	h.rooms[client.roomID][client] = true
	h.mu.Unlock()

	slog.Info("client joined room", "user_id", client.userID, "room_id", client.roomID)
	if first && h.onFirstClient != nil {
		h.onFirstClient(client.roomID)
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	last := false
	if clients, exists := h.rooms[client.roomID]; exists {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)
			if len(clients) == 0 {
				delete(h.rooms, client.roomID)
				last = true
			}
		}
	}
	h.mu.Unlock()

	slog.Info("client left room", "user_id", client.userID, "room_id", client.roomID)
	if last && h.onLastClient != nil {
		h.onLastClient(client.roomID)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and attaches the client to its room.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, roomID, userID string, msgSvc *service.MessageService, combos *service.ComboService) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		roomID: roomID,
		userID: userID,
		msgSvc: msgSvc,
		combos: combos,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}
