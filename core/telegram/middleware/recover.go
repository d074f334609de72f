package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/jakhon09-png/vizabot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// RecoverMiddleware keeps a panicking handler from taking down the update
// loop. The update keeps flowing; the panic is logged with its stack.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			attrs := []slog.Attr{
				slog.Any("err", r),
				slog.String("stack", string(debug.Stack())),
			}
			if upd := c.Update(); upd.ID != 0 {
				attrs = append(attrs, slog.Int("update_id", upd.ID))
			}
			logger.LogEvent(logger.Background(), logger.TG, slog.LevelError, "tg.panic", attrs...)
		}()
		return next(c)
	}
}
