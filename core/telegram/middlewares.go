package telegram

import (
	"github.com/jakhon09-png/vizabot/core/telegram/middleware"
)

// DefaultMiddlewares builds the shared global middleware chain for the bot.
// The cooldown gate is not global; it wraps AI handlers only.
func DefaultMiddlewares() []Middleware {
	return []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "logger", Use: middleware.LoggerMiddleware},
		{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	}
}
