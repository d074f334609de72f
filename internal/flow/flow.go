package flow

import (
	"context"
	"time"

	"github.com/jakhon09-png/vizabot/internal/registry"
	"github.com/jakhon09-png/vizabot/internal/service"
	"github.com/jakhon09-png/vizabot/internal/session"

	tele "gopkg.in/telebot.v4"
)

// ChatService is the generative-language collaborator.
type ChatService interface {
	Reply(ctx context.Context, history []session.Turn, text string) (string, error)
	TranslateVia(ctx context.Context, text, targetLang string) (string, error)
	Summarize(ctx context.Context, query string) (string, error)
	Outline(ctx context.Context, topic string) (string, error)
}

// TranslateService is the dedicated translation collaborator.
type TranslateService interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// WeatherService resolves a city to current conditions.
type WeatherService interface {
	Current(ctx context.Context, city string) (service.Report, error)
}

// CryptoService resolves a coin to its spot price.
type CryptoService interface {
	Price(ctx context.Context, coin string) (service.Quote, error)
}

// CurrencyService resolves a currency code to its official rate.
type CurrencyService interface {
	Rate(ctx context.Context, code string) (service.Rate, error)
}

// Broadcaster fans an administrator message out to all registered users.
type Broadcaster interface {
	Broadcast(ctx context.Context, text string) (sent, failed int, err error)
}

// Reporter composes the activity digest for the administrator.
type Reporter interface {
	Digest(ctx context.Context) (string, error)
}

// Flow wires session state, the limiter, and external collaborators into
// the bot's command, callback, and free-text handlers.
type Flow struct {
	store   session.Store
	limiter *session.Limiter
	reg     registry.Registry

	chat        ChatService
	translator  TranslateService
	weather     WeatherService
	crypto      CryptoService
	currency    CurrencyService
	transcriber service.Transcriber

	broadcaster Broadcaster
	reporter    Reporter

	adminID     int64
	historySize int

	now func() time.Time
}

// Options collects Flow dependencies. Store, Limiter, Registry, and Chat
// are required; the rest degrade to a service-failure reply when nil.
type Options struct {
	Store    session.Store
	Limiter  *session.Limiter
	Registry registry.Registry

	Chat        ChatService
	Translator  TranslateService
	Weather     WeatherService
	Crypto      CryptoService
	Currency    CurrencyService
	Transcriber service.Transcriber

	Broadcaster Broadcaster
	Reporter    Reporter

	AdminID     int64
	HistorySize int
}

// New builds a Flow.
func New(opts Options) *Flow {
	historySize := opts.HistorySize
	if historySize <= 0 {
		historySize = 10
	}
	return &Flow{
		store:       opts.Store,
		limiter:     opts.Limiter,
		reg:         opts.Registry,
		chat:        opts.Chat,
		translator:  opts.Translator,
		weather:     opts.Weather,
		crypto:      opts.Crypto,
		currency:    opts.Currency,
		transcriber: opts.Transcriber,
		broadcaster: opts.Broadcaster,
		reporter:    opts.Reporter,
		adminID:     opts.AdminID,
		historySize: historySize,
		now:         time.Now,
	}
}

// AdminID returns the configured administrator identity.
func (f *Flow) AdminID() int64 {
	return f.adminID
}

// reply is a routed response: text plus optional inline keyboard.
type reply struct {
	Text   string
	Markup *tele.ReplyMarkup
}

func textReply(text string) reply {
	return reply{Text: text}
}
