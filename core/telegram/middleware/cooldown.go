package middleware

import (
	"time"

	"github.com/jakhon09-png/vizabot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CooldownOptions configures pacing of AI-class handlers.
type CooldownOptions struct {
	// Allow decides whether the user may issue another paced request now,
	// stamping the last-request time when it returns true.
	Allow     func(userID int64, now time.Time) bool
	OnLimited tele.HandlerFunc
}

// CooldownGate wraps a handler with a per-user minimum-interval check.
// It is applied per handler, never globally: button-driven lookups stay
// unthrottled. On a limited request the wrapped handler is not invoked and
// no side effects happen beyond the pacing notice.
func CooldownGate(opts CooldownOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Allow == nil {
				return next(c)
			}
			if opts.Allow(user.ID, time.Now()) {
				return next(c)
			}

			logger.LogEvent(logger.Background(), logger.TG, slog.LevelWarn, "tg.cooldown",
				slog.String("status", "rate_limited"),
				slog.Int64("user_id", user.ID),
			)
			if opts.OnLimited != nil {
				return opts.OnLimited(c)
			}
			return nil
		}
	}
}
