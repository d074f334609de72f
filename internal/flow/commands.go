package flow

import (
	"fmt"
	"strings"
	"time"

	"github.com/jakhon09-png/vizabot/core/logger"
	tg "github.com/jakhon09-png/vizabot/core/telegram"
	"github.com/jakhon09-png/vizabot/core/telegram/commands"
	tghelpers "github.com/jakhon09-png/vizabot/core/telegram/helpers"
	"github.com/jakhon09-png/vizabot/core/telegram/middleware"
	"github.com/jakhon09-png/vizabot/internal/session"

	tele "gopkg.in/telebot.v4"
)

// Register binds every command, callback, and the free-text fallback to the
// registry. The AI chat fallback is the only cooldown-gated handler.
func (f *Flow) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     f.tracked(f.handleStart),
		Description: "Botni ishga tushirish",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     f.tracked(f.handleHelp),
		Description: "Yordam",
	})
	reg.RegisterCommand("/myid", commands.Command{
		Handler:     f.tracked(f.handleMyID),
		Description: "Sizning ID raqamingiz",
	})
	reg.RegisterCommand("/history", commands.Command{
		Handler:     f.tracked(f.handleHistory),
		Description: "Suhbat tarixi",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     f.tracked(f.handleCancel),
		Description: "Joriy amalni bekor qilish",
	})
	reg.RegisterCommand("/weather", commands.Command{
		Handler:     f.tracked(f.handleWeather),
		Description: "Ob-havo ma'lumoti",
		Aliases:     []string{"ob-havo"},
	})
	reg.RegisterCommand("/crypto", commands.Command{
		Handler:     f.tracked(f.handleCrypto),
		Description: "Kripto narxlari",
	})
	reg.RegisterCommand("/currency", commands.Command{
		Handler:     f.tracked(f.handleCurrency),
		Description: "Valyuta kurslari",
	})
	reg.RegisterCommand("/translate", commands.Command{
		Handler:     f.tracked(f.handleTranslate),
		Description: "Matn tarjimasi",
		Aliases:     []string{"tarjima"},
	})
	reg.RegisterCommand("/search", commands.Command{
		Handler:     f.tracked(f.handleSearch),
		Description: "Qidiruv",
	})
	reg.RegisterCommand("/presentation", commands.Command{
		Handler:     f.tracked(f.handlePresentation),
		Description: "Taqdimot rejasi",
	})
	reg.RegisterCommand("/broadcast", commands.Command{
		Handler:     f.handleBroadcast,
		Description: "Barcha foydalanuvchilarga xabar",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/report", commands.Command{
		Handler:     f.handleReport,
		Description: "Faollik hisoboti",
		AdminOnly:   true,
		Hidden:      true,
	})

	_ = reg.RegisterCallback(cbWeather, f.handleWeatherCallback)
	_ = reg.RegisterCallback(cbCrypto, f.handleCryptoCallback)
	_ = reg.RegisterCallback(cbCurrency, f.handleCurrencyCallback)
	_ = reg.RegisterCallback(cbLang, f.handleLangCallback)
	_ = reg.RegisterCallback(cbCancel, f.handleCancelCallback)

	gate := middleware.CooldownGate(middleware.CooldownOptions{
		Allow:     f.allowAI,
		OnLimited: f.handleLimited,
	})
	reg.SetTextFallback(gate(f.handleChat))
}

// tracked registers the sender before running the handler, so a user who
// only presses menus still lands in the broadcast audience.
func (f *Flow) tracked(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if sender := c.Sender(); sender != nil {
			ctx := tghelpers.BuildContext(c)
			_, _ = f.store.Get(ctx, sender.ID)
		}
		return next(c)
	}
}

func (f *Flow) allowAI(userID int64, now time.Time) bool {
	if f.limiter == nil {
		return true
	}
	return f.limiter.Allow(logger.Background(), userID, now)
}

func (f *Flow) handleLimited(c tele.Context) error {
	wait := time.Duration(0)
	if f.limiter != nil {
		wait = f.limiter.Retry(tghelpers.BuildContext(c), c.Sender().ID, f.now())
	}
	return tghelpers.SendText(c, cooldownMessage(wait))
}

func (f *Flow) handleStart(c tele.Context) error {
	return tghelpers.SendText(c, msgWelcome)
}

func (f *Flow) handleHelp(c tele.Context) error {
	return tghelpers.SendText(c, msgHelp)
}

func (f *Flow) handleMyID(c tele.Context) error {
	return tghelpers.SendText(c, fmt.Sprintf("Sizning ID raqamingiz: %d", c.Sender().ID))
}

func (f *Flow) handleHistory(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	sess, err := f.store.Get(ctx, c.Sender().ID)
	if err != nil {
		return tghelpers.SendText(c, msgServiceFailed)
	}
	return tghelpers.SendMD(c, formatHistory(sess.History))
}

func (f *Flow) handleCancel(c tele.Context) error {
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
		return tghelpers.SendText(c, msgNothingToCancel)
	}
	return tghelpers.SendText(c, msgCancelled)
}

// handleWeather resolves immediately when a city argument is given;
// otherwise it offers the city menu. No pending mode is involved: the
// callback token carries the whole request.
func (f *Flow) handleWeather(c tele.Context) error {
	if city := strings.TrimSpace(c.Message().Payload); city != "" {
		return f.replyWeather(c, city)
	}
	return tghelpers.SendMD(c, msgChooseCity, cityMenu())
}

func (f *Flow) handleCrypto(c tele.Context) error {
	if coin := strings.TrimSpace(c.Message().Payload); coin != "" {
		return f.replyCrypto(c, coin)
	}
	return tghelpers.SendMD(c, msgChooseCoin, coinMenu())
}

func (f *Flow) handleCurrency(c tele.Context) error {
	return tghelpers.SendMD(c, msgChooseCurrency, currencyMenu())
}

// handleTranslate starts the two-step flow: a language must be chosen, then
// the next text message is consumed as the translation input.
func (f *Flow) handleTranslate(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	_, err := f.store.Update(ctx, c.Sender().ID, func(s *session.UserSession) {
		s.Pending = session.AwaitingTranslationTarget
		s.TargetLanguage = ""
	})
	if err != nil {
		return tghelpers.SendText(c, msgServiceFailed)
	}
	return tghelpers.SendMD(c, msgChooseLanguage, languageMenu())
}

func (f *Flow) handleSearch(c tele.Context) error {
	return f.promptMode(c, session.AwaitingSearchQuery, msgSendSearch)
}

func (f *Flow) handlePresentation(c tele.Context) error {
	return f.promptMode(c, session.AwaitingPresentationTopic, msgSendTopic)
}

func (f *Flow) promptMode(c tele.Context, mode session.PendingMode, prompt string) error {
	ctx := tghelpers.BuildContext(c)
	_, err := f.store.Update(ctx, c.Sender().ID, func(s *session.UserSession) {
		s.Pending = mode
		s.TargetLanguage = ""
	})
	if err != nil {
		return tghelpers.SendText(c, msgServiceFailed)
	}
	return tghelpers.SendMD(c, prompt, cancelMenu())
}

// PendingHandler consumes one text message inside the user's active flow.
func (f *Flow) PendingHandler(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	r, err := f.consumePending(ctx, c.Sender().ID, c.Text())
	return f.send(c, r, err)
}

func (f *Flow) handleChat(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	r, err := f.answerChat(ctx, c.Sender().ID, c.Text())
	return f.send(c, r, err)
}

func (f *Flow) send(c tele.Context, r reply, handlerErr error) error {
	if r.Text == "" {
		return handlerErr
	}
	var sendErr error
	if r.Markup != nil {
		sendErr = tghelpers.SendMD(c, r.Text, r.Markup)
	} else {
		sendErr = tghelpers.SendText(c, r.Text)
	}
	if handlerErr != nil {
		return handlerErr
	}
	return sendErr
}
