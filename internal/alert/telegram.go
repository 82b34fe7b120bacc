// Package alert mirrors write failures that users must not silently eat
// into an ops Telegram chat. Economic writes and host-initiated structural
// changes are the two classes that page someone.
package alert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"

	"github.com/aura-social/liveroom/internal/config"
)

type Notifier struct {
	bot *bot.Bot
	cfg *config.Config
}

// New returns a Notifier. A nil bot (no token configured) disables
// delivery; calls still log locally.
func New(b *bot.Bot, cfg *config.Config) *Notifier {
	return &Notifier{bot: b, cfg: cfg}
}

// EconomicWriteFailure reports a failed gift/ledger write. The caller has
// already received the error; this is the ops-side mirror.
func (n *Notifier) EconomicWriteFailure(err error, detail string) {
	slog.Error("economic write failed", "detail", detail, "error", err)
	n.send(n.cfg.AlertTopicEconomy, fmt.Sprintf("💸 *Economic write failed*\n\n*Detail:* %s\n*Error:* `%s`\n*Time:* %s",
		detail, err.Error(), time.Now().Format("2006-01-02 15:04:05")))
}

// RoomUpdateFailure reports a failed host action (reset charm, open mics,
// layout change).
func (n *Notifier) RoomUpdateFailure(err error, detail string) {
	slog.Error("room update failed", "detail", detail, "error", err)
	n.send(n.cfg.AlertTopicRoom, fmt.Sprintf("🎙 *Room update failed*\n\n*Detail:* %s\n*Error:* `%s`\n*Time:* %s",
		detail, err.Error(), time.Now().Format("2006-01-02 15:04:05")))
}

func (n *Notifier) send(topicID int, message string) {
	if n.bot == nil || n.cfg.AlertChatID == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.AlertTimeout)
	defer cancel()

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          n.cfg.AlertChatID,
		Text:            message,
		ParseMode:       "Markdown",
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send ops alert", "error", err)
	}
}
