package flow

import "github.com/jakhon09-png/vizabot/internal/session"

// Decision names the single handler that consumes a plain-text message.
type Decision int

const (
	// DecideChat routes to generative AI chat (cooldown-gated).
	DecideChat Decision = iota
	// DecideTranslationTarget interprets the text as a language choice.
	DecideTranslationTarget
	// DecideTranslate feeds the text to the translation handler.
	DecideTranslate
	// DecideSearch feeds the text to the search handler.
	DecideSearch
	// DecidePresentation feeds the text to the outline handler.
	DecidePresentation
)

// Decide picks exactly one consumer for a plain-text message, in fixed
// priority order. A session in a sub-flow never leaks text to generic chat;
// with no pending mode the text always falls through to chat.
func Decide(sess session.UserSession) Decision {
	switch sess.Pending {
	case session.AwaitingTranslationTarget:
		return DecideTranslationTarget
	case session.AwaitingTranslationText:
		if sess.TargetLanguage != "" {
			return DecideTranslate
		}
		return DecideTranslationTarget
	case session.AwaitingSearchQuery:
		return DecideSearch
	case session.AwaitingPresentationTopic:
		return DecidePresentation
	default:
		return DecideChat
	}
}
