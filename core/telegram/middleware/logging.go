package middleware

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jakhon09-png/vizabot/core/logger"
	tghelpers "github.com/jakhon09-png/vizabot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// updateDedup remembers recently seen update IDs so the receipt line is
// logged once even when the middleware runs on several route branches.
type updateDedup struct {
	mu      sync.Mutex
	seen    map[int]time.Time
	keepFor time.Duration
}

var receiptDedup = updateDedup{
	seen:    make(map[int]time.Time),
	keepFor: 10 * time.Second,
}

func (d *updateDedup) firstSighting(updateID int) bool {
	now := time.Now()
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, ts := range d.seen {
		if now.Sub(ts) > d.keepFor {
			delete(d.seen, id)
		}
	}
	if _, ok := d.seen[updateID]; ok {
		return false
	}
	d.seen[updateID] = now
	return true
}

// LoggerMiddleware assigns the update its RID, caches the derived context
// for downstream helpers, and logs one debug receipt line per update.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		var userID, chatID int64
		if sender := c.Sender(); sender != nil {
			userID = sender.ID
		}
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}

		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)
		c.Set("update_start", time.Now())
		ctx := tghelpers.BuildContext(c)

		if logger.ShouldSampleDebug() && receiptDedup.firstSighting(upd.ID) {
			logger.LogEvent(ctx, logger.Component("tg"), slog.LevelDebug,
				"update.received", receiptAttrs(c, rid)...)
		}

		return next(c)
	}
}

func receiptAttrs(c tele.Context, rid string) []slog.Attr {
	upd := c.Update()
	attrs := []slog.Attr{
		slog.String("status", "ok"),
		slog.String("rid", rid),
		slog.Int("update_id", upd.ID),
	}
	if chat := c.Chat(); chat != nil {
		attrs = append(attrs,
			slog.Int64("chat_id", chat.ID),
			slog.String("chat_type", string(chat.Type)),
		)
	}
	if sender := c.Sender(); sender != nil {
		attrs = append(attrs, slog.Int64("user_id", sender.ID))
		if sender.Username != "" {
			attrs = append(attrs, slog.String("username", logger.SanitizeLimit(sender.Username, 64)))
		}
		if sender.LanguageCode != "" {
			attrs = append(attrs, slog.String("lang", sender.LanguageCode))
		}
	}

	switch {
	case upd.Callback != nil:
		key, payload := parseCallback(upd.Callback)
		if key != "" {
			attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(key, 128)))
		}
		if payload != "" {
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(payload, 256)))
		}
	case upd.Message != nil:
		if t := c.Text(); t != "" {
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
		}
	}
	return attrs
}

func parseCallback(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\\f")
	key, payload, _ := strings.Cut(raw, "|")
	return strings.TrimSpace(key), payload
}
