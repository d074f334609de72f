package flow

import (
	"strings"

	"github.com/jakhon09-png/vizabot/core/telegram/callbacks"
	tghelpers "github.com/jakhon09-png/vizabot/core/telegram/helpers"
	"github.com/jakhon09-png/vizabot/internal/session"

	tele "gopkg.in/telebot.v4"
)

// Weather, crypto, and currency callbacks are single-shot: the token itself
// carries the whole request, so no pending mode is read or written. The
// callback query is acknowledged by the callback route before these run.

func (f *Flow) handleWeatherCallback(c tele.Context) error {
	city := callbacks.CallbackPayload(c)
	if city == "" {
		return tghelpers.SendText(c, msgServiceFailed)
	}
	return f.replyWeather(c, city)
}

func (f *Flow) handleCryptoCallback(c tele.Context) error {
	coin := callbacks.CallbackPayload(c)
	if coin == "" {
		return tghelpers.SendText(c, msgServiceFailed)
	}
	return f.replyCrypto(c, coin)
}

func (f *Flow) handleCurrencyCallback(c tele.Context) error {
	code := callbacks.CallbackPayload(c)
	if code == "" {
		return tghelpers.SendText(c, msgServiceFailed)
	}
	return f.replyCurrency(c, code)
}

// handleLangCallback advances the translation flow: the chosen code is
// stored and the next text message becomes the translation input.
func (f *Flow) handleLangCallback(c tele.Context) error {
	code := strings.ToLower(callbacks.CallbackPayload(c))
	if !knownLanguage(code) {
		return tghelpers.SendText(c, msgServiceFailed)
	}
	ctx := tghelpers.BuildContext(c)
	_, err := f.store.Update(ctx, c.Sender().ID, func(s *session.UserSession) {
		s.TargetLanguage = code
		s.Pending = session.AwaitingTranslationText
	})
	if err != nil {
		return tghelpers.SendText(c, msgServiceFailed)
	}
	return tghelpers.EditOrSendMD(c, msgSendTranslText)
}

// handleCancelCallback mirrors /cancel for the inline button attached to
// flow prompts. The prompt itself is edited so the stale menu disappears.
func (f *Flow) handleCancelCallback(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	had := false
	_, err := f.store.Update(ctx, c.Sender().ID, func(s *session.UserSession) {
		had = s.InFlow()
		s.Pending = session.PendingNone
		s.TargetLanguage = ""
	})
	if err != nil {
		return tghelpers.SendText(c, msgServiceFailed)
	}
	if !had {
		return tghelpers.EditOrSendMD(c, msgNothingToCancel)
	}
	return tghelpers.EditOrSendMD(c, msgCancelled)
}

func (f *Flow) replyWeather(c tele.Context, city string) error {
	if f.weather == nil {
		return tghelpers.SendText(c, msgServiceFailed)
	}
	ctx := tghelpers.BuildContext(c)
	report, err := f.weather.Current(ctx, city)
	if err != nil {
		_ = tghelpers.SendText(c, msgServiceFailed)
		return err
	}
	return tghelpers.EditOrSendMD(c, formatWeather(report))
}

func (f *Flow) replyCrypto(c tele.Context, coin string) error {
	if f.crypto == nil {
		return tghelpers.SendText(c, msgServiceFailed)
	}
	ctx := tghelpers.BuildContext(c)
	quote, err := f.crypto.Price(ctx, coin)
	if err != nil {
		_ = tghelpers.SendText(c, msgServiceFailed)
		return err
	}
	return tghelpers.EditOrSendMD(c, formatQuote(quote))
}

func (f *Flow) replyCurrency(c tele.Context, code string) error {
	if f.currency == nil {
		return tghelpers.SendText(c, msgServiceFailed)
	}
	ctx := tghelpers.BuildContext(c)
	rate, err := f.currency.Rate(ctx, code)
	if err != nil {
		_ = tghelpers.SendText(c, msgServiceFailed)
		return err
	}
	return tghelpers.EditOrSendMD(c, formatRate(rate))
}
