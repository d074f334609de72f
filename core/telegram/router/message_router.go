package router

import (
	"time"

	tg "github.com/jakhon09-png/vizabot/core/telegram"
	"github.com/jakhon09-png/vizabot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Flow is the minimal interface the text router needs from the
// conversational flow manager. A user with a pending mode consumes the
// message inside the flow; the message must never reach the generic
// fallback while a mode is active.
type Flow interface {
	InProgress(userID int64) bool
	PendingHandler(c tele.Context) error
}

// TextOptions controls routing of voice updates and last-resort fallbacks.
type TextOptions struct {
	Voice        tele.HandlerFunc
	UnknownVoice tele.HandlerFunc
}

// TextRoutes builds handlers for plain-text and voice updates. Priority for
// text: active flow mode first, then bare command aliases, then the
// registry's text fallback (generic AI chat).
func TextRoutes(flow Flow, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if flow != nil && flow.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "flow", start, "", "", func() error {
				return flow.PendingHandler(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "chat", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	voiceHandler := func(c tele.Context) error {
		start := time.Now()
		if opts.Voice != nil {
			return handleWithSummary(c, "voice", start, "", "", func() error {
				return opts.Voice(c)
			})
		}
		if opts.UnknownVoice != nil {
			return handleWithSummary(c, "unexpected_voice", start, "", "", func() error {
				return opts.UnknownVoice(c)
			})
		}
		logHandlerSummary(c, "unexpected_voice", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
		{
			Endpoint: tele.OnVoice,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(voiceHandler)),
		},
	}
}
