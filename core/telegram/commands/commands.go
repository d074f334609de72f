package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command binds a handler to a slash command. Hidden commands are kept out
// of the Telegram command menu; AdminOnly ones are gated on the configured
// admin account. Aliases let plain words (e.g. "tarjima") reach the same
// handler as the slash form.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
	Aliases     []string
}
