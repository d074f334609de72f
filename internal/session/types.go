package session

import (
	"context"
	"time"
)

// PendingMode marks which conversational sub-flow, if any, should consume
// the user's next plain-text message. At most one mode is active per user.
type PendingMode string

const (
	PendingNone               PendingMode = "none"
	AwaitingTranslationTarget PendingMode = "awaiting_translation_target"
	AwaitingTranslationText   PendingMode = "awaiting_translation_text"
	AwaitingSearchQuery       PendingMode = "awaiting_search_query"
	AwaitingPresentationTopic PendingMode = "awaiting_presentation_topic"
)

// Turn is one user/bot exchange kept as AI chat context.
type Turn struct {
	UserText string `json:"user_text"`
	BotText  string `json:"bot_text"`
}

// UserSession holds per-user conversational state.
type UserSession struct {
	UserID             int64       `json:"user_id"`
	Pending            PendingMode `json:"pending"`
	TargetLanguage     string      `json:"target_language,omitempty"`
	LanguagePreference string      `json:"language_preference"`
	LastRequestAt      time.Time   `json:"last_request_at"`
	History            []Turn      `json:"history,omitempty"`
}

// AppendTurn records an exchange, evicting the oldest entries beyond limit.
func (s *UserSession) AppendTurn(userText, botText string, limit int) {
	s.History = append(s.History, Turn{UserText: userText, BotText: botText})
	if limit > 0 && len(s.History) > limit {
		s.History = s.History[len(s.History)-limit:]
	}
}

// InFlow reports whether a pending mode is set.
func (s *UserSession) InFlow() bool {
	return s.Pending != "" && s.Pending != PendingNone
}

// Store provides per-user session access. Get creates a session with
// defaults on first contact; Update applies a mutation that is atomic from
// the caller's perspective.
type Store interface {
	Get(ctx context.Context, userID int64) (UserSession, error)
	Update(ctx context.Context, userID int64, mutate func(*UserSession)) (UserSession, error)
}
