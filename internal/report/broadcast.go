package report

import (
	"context"

	"github.com/jakhon09-png/vizabot/core/logger"
	"github.com/jakhon09-png/vizabot/internal/registry"
	"log/slog"
)

// Sender delivers one text message to one user. The Telegram glue lives in
// the app layer; tests inject fakes.
type Sender interface {
	SendTo(ctx context.Context, userID int64, text string) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, userID int64, text string) error

// SendTo implements Sender.
func (f SenderFunc) SendTo(ctx context.Context, userID int64, text string) error {
	return f(ctx, userID, text)
}

// Broadcaster fans administrator messages out to every registered user.
type Broadcaster struct {
	reg    registry.Registry
	sender Sender
}

// NewBroadcaster builds a Broadcaster.
func NewBroadcaster(reg registry.Registry, sender Sender) *Broadcaster {
	return &Broadcaster{reg: reg, sender: sender}
}

// Broadcast attempts delivery to every registered user independently. A
// failed delivery is counted and never aborts the remaining attempts.
func (b *Broadcaster) Broadcast(ctx context.Context, text string) (sent, failed int, err error) {
	users, err := b.reg.Users(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, userID := range users {
		if err := b.sender.SendTo(ctx, userID, text); err != nil {
			failed++
			logger.Debug(ctx, "report", "broadcast.delivery_failed",
				slog.Int64("user_id", userID),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
			continue
		}
		sent++
	}

	logger.Info(ctx, "report", "broadcast.done",
		slog.String("status", "ok"),
		slog.Int("sent", sent),
		slog.Int("failed", failed),
		slog.Int("users", len(users)),
	)
	return sent, failed, nil
}
