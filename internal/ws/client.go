package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aura-social/liveroom/internal/config"
	"github.com/aura-social/liveroom/internal/service"
)

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	roomID string
	userID string
	msgSvc *service.MessageService
	combos *service.ComboService
}

type inboundFrame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// readPump consumes client frames: chat messages and keepalives. State
// mutations (seats, gifts, host tools) go over HTTP, not this socket.
func (c *Client) readPump() {
	defer func() {
		// Teardown drops any pending combo session with its timer.
		c.combos.Clear(c.roomID, c.userID)
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(config.MaxWSMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(config.WSReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.WSReadTimeout))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("client read error", "user_id", c.userID, "error", err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			continue
		}

		switch frame.Type {
		case "ping":
			// Replies go through the send channel; writePump is the only
			// writer on the conn.
			if pong, err := json.Marshal(map[string]string{"type": "pong"}); err == nil {
				select {
				case c.send <- pong:
				default:
				}
			}
		case "pong":
		case "message":
			ctx, cancel := context.WithTimeout(context.Background(), config.WSWriteTimeout)
			if _, err := c.msgSvc.Send(ctx, c.roomID, c.userID, frame.Content); err != nil {
				slog.Error("message send failed", "user_id", c.userID, "error", err)
			}
			cancel()
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(config.WSReadTimeout * 9 / 10)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WSWriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WSWriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
