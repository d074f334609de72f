package flow

import (
	"context"
	"strings"

	"github.com/jakhon09-png/vizabot/core/logger"
	"github.com/jakhon09-png/vizabot/internal/session"
	"log/slog"
)

// InProgress reports whether the user's next text belongs to a sub-flow.
func (f *Flow) InProgress(userID int64) bool {
	sess, err := f.store.Get(context.Background(), userID)
	if err != nil {
		return false
	}
	return sess.InFlow()
}

// consumePending routes one text message into the user's active sub-flow.
// Callers must check InProgress first; a session without a pending mode
// gets a chat-less no-op reply here, never an AI call.
func (f *Flow) consumePending(ctx context.Context, userID int64, text string) (reply, error) {
	f.logRequest(ctx, userID, text)

	sess, err := f.store.Get(ctx, userID)
	if err != nil {
		return textReply(msgServiceFailed), err
	}

	switch Decide(sess) {
	case DecideTranslationTarget:
		return f.selectTarget(ctx, userID, text)
	case DecideTranslate:
		return f.translateText(ctx, userID, sess.TargetLanguage, text)
	case DecideSearch:
		return f.searchQuery(ctx, userID, text)
	case DecidePresentation:
		return f.presentationTopic(ctx, userID, text)
	default:
		return reply{}, nil
	}
}

// selectTarget interprets typed text while the bot awaits a language
// choice. Valid codes advance the flow; anything else re-prompts, keeping
// the message away from generic chat.
func (f *Flow) selectTarget(ctx context.Context, userID int64, text string) (reply, error) {
	code := strings.ToLower(strings.TrimSpace(text))
	if !knownLanguage(code) {
		return reply{Text: msgUnknownLang, Markup: languageMenu()}, nil
	}
	_, err := f.store.Update(ctx, userID, func(s *session.UserSession) {
		s.TargetLanguage = code
		s.Pending = session.AwaitingTranslationText
	})
	if err != nil {
		return textReply(msgServiceFailed), err
	}
	return textReply(msgSendTranslText), nil
}

// translateText is one-shot: mode and target are cleared on completion
// whether the providers succeeded or not.
func (f *Flow) translateText(ctx context.Context, userID int64, targetLang, text string) (reply, error) {
	defer func() {
		if _, err := f.store.Update(ctx, userID, func(s *session.UserSession) {
			s.Pending = session.PendingNone
			s.TargetLanguage = ""
		}); err != nil {
			logger.Warn(ctx, "flow", "pending_clear.failed",
				slog.Int64("user_id", userID),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		}
	}()

	if f.translator != nil {
		out, err := f.translator.Translate(ctx, text, "", targetLang)
		if err == nil {
			return textReply(out), nil
		}
		logger.Warn(ctx, "flow", "translate.fallback",
			slog.String("target_lang", targetLang),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	}
	if f.chat != nil {
		out, err := f.chat.TranslateVia(ctx, text, targetLang)
		if err == nil {
			return textReply(out), nil
		}
		return textReply(msgServiceFailed), err
	}
	return textReply(msgServiceFailed), nil
}

func (f *Flow) searchQuery(ctx context.Context, userID int64, text string) (reply, error) {
	defer f.clearPending(ctx, userID)
	if f.chat == nil {
		return textReply(msgServiceFailed), nil
	}
	out, err := f.chat.Summarize(ctx, text)
	if err != nil {
		return textReply(msgServiceFailed), err
	}
	return textReply(out), nil
}

func (f *Flow) presentationTopic(ctx context.Context, userID int64, text string) (reply, error) {
	defer f.clearPending(ctx, userID)
	if f.chat == nil {
		return textReply(msgServiceFailed), nil
	}
	out, err := f.chat.Outline(ctx, text)
	if err != nil {
		return textReply(msgServiceFailed), err
	}
	return textReply(out), nil
}

// answerChat is the generic AI handler: pacing is checked by the caller's
// cooldown gate before this runs.
func (f *Flow) answerChat(ctx context.Context, userID int64, text string) (reply, error) {
	f.logRequest(ctx, userID, text)

	sess, err := f.store.Get(ctx, userID)
	if err != nil {
		return textReply(msgServiceFailed), err
	}
	if f.chat == nil {
		return textReply(msgServiceFailed), nil
	}
	answer, err := f.chat.Reply(ctx, sess.History, text)
	if err != nil {
		return textReply(msgServiceFailed), err
	}
	_, _ = f.store.Update(ctx, userID, func(s *session.UserSession) {
		s.AppendTurn(text, answer, f.historySize)
	})
	return textReply(answer), nil
}

func (f *Flow) clearPending(ctx context.Context, userID int64) {
	if _, err := f.store.Update(ctx, userID, func(s *session.UserSession) {
		s.Pending = session.PendingNone
	}); err != nil {
		logger.Warn(ctx, "flow", "pending_clear.failed",
			slog.Int64("user_id", userID),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	}
}

func (f *Flow) logRequest(ctx context.Context, userID int64, text string) {
	if f.reg == nil {
		return
	}
	if err := f.reg.LogRequest(ctx, userID, text); err != nil {
		logger.Warn(ctx, "flow", "request_log.failed",
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	}
}
