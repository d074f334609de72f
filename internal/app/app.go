package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jakhon09-png/vizabot/core/bootstrap"
	corecmd "github.com/jakhon09-png/vizabot/core/cmd"
	coreconfig "github.com/jakhon09-png/vizabot/core/config"
	"github.com/jakhon09-png/vizabot/core/logger"
	coretelegram "github.com/jakhon09-png/vizabot/core/telegram"
	"github.com/jakhon09-png/vizabot/core/telegram/router"
	tgsender "github.com/jakhon09-png/vizabot/core/telegram/sender"
	"github.com/jakhon09-png/vizabot/internal/flow"
	"github.com/jakhon09-png/vizabot/internal/registry"
	"github.com/jakhon09-png/vizabot/internal/report"
	"github.com/jakhon09-png/vizabot/internal/sched"
	"github.com/jakhon09-png/vizabot/internal/service"
	"github.com/jakhon09-png/vizabot/internal/session"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Config wraps the core configuration for the generic runner.
type Config struct {
	Core *coreconfig.Config
}

// CoreConfig implements cmd.ConfigCarrier.
func (c *Config) CoreConfig() *coreconfig.Config {
	return c.Core
}

// LoadConfig reads and validates configuration from path.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	cfg, err := coreconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return &Config{Core: cfg}, nil
}

// App composes the session router: state, limiter, registry, services,
// flow handlers, and the daily digest schedule.
type App struct {
	cfg *coreconfig.Config

	flow      *flow.Flow
	reporter  *report.Reporter
	scheduler *sched.Daily

	// bot and dispatcher are populated on start; the broadcaster and the
	// scheduled digest deliver through them.
	bot        atomic.Pointer[tele.Bot]
	dispatcher atomic.Pointer[tgsender.Dispatcher]

	schedCancel context.CancelFunc
	closers     []func() error
}

// Bootstrap initializes infrastructure and wires all components.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg := carrier.CoreConfig()

	boot, err := bootstrap.Run(bootstrap.Options{Config: cfg})
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg}
	if boot.DB != nil {
		a.closers = append(a.closers, boot.DB.Close)
	}

	var reg registry.Registry
	if boot.DB != nil {
		reg = registry.NewPostgres(boot.DB, cfg.History.RequestLogSize)
	} else {
		reg = registry.NewMemory(cfg.History.RequestLogSize)
	}

	onFirstSeen := func(userID int64) {
		if err := reg.AddUser(logger.Background(), userID); err != nil {
			logger.Warn(logger.Background(), "app", "register.failed",
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		}
	}

	var store session.Store
	if cfg.Redis.Addr != "" {
		redisStore, err := session.NewRedisStore(context.Background(), session.RedisOptions{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			TTL:         time.Duration(cfg.Redis.TTLMinutes) * time.Minute,
			OnFirstSeen: onFirstSeen,
		})
		if err != nil {
			return nil, fmt.Errorf("app: redis store: %w", err)
		}
		a.closers = append(a.closers, redisStore.Close)
		store = redisStore
	} else {
		store = session.NewMemoryStore(session.MemoryOptions{OnFirstSeen: onFirstSeen})
	}

	limiter := session.NewLimiter(store, time.Duration(cfg.Cooldown.Seconds)*time.Second)

	timeout := time.Duration(cfg.Services.TimeoutSeconds) * time.Second
	client := service.NewClient(timeout)
	chatOpts := service.ChatOptions{
		APIKey:  cfg.Services.AI.APIKey,
		BaseURL: cfg.Services.AI.BaseURL,
		Model:   cfg.Services.AI.Model,
		Timeout: timeout,
	}

	a.reporter = report.NewReporter(reg)
	broadcaster := report.NewBroadcaster(reg, report.SenderFunc(a.sendTo))

	a.flow = flow.New(flow.Options{
		Store:       store,
		Limiter:     limiter,
		Registry:    reg,
		Chat:        service.NewChat(chatOpts),
		Translator:  service.NewTranslator(client, cfg.Services.TranslateURL),
		Weather:     service.NewWeather(client, cfg.Services.WeatherURL, cfg.Services.WeatherAPIKey),
		Crypto:      service.NewCrypto(client, cfg.Services.CryptoURL),
		Currency:    service.NewCurrency(client, cfg.Services.CurrencyURL),
		Transcriber: service.NewWhisperTranscriber(chatOpts),
		Broadcaster: broadcaster,
		Reporter:    a.reporter,
		AdminID:     cfg.Telegram.AdminID,
		HistorySize: cfg.History.Size,
	})

	a.scheduler = sched.NewDaily(cfg.Report.Hour, cfg.Report.Minute, a.deliverDigest)

	return a, nil
}

// TelegramRunOptions implements cmd.TelegramApp.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.flow.Register(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID:       a.cfg.Telegram.AdminID,
		OnAdminReject: a.flow.RejectNonAdmin,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a.flow, reg, router.TextOptions{
		Voice: a.flow.HandleVoice,
	})...)

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(),
		Routes:      routes,
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *App) onStart(ctx context.Context, rt coretelegram.Runtime) error {
	a.bot.Store(rt.Bot)
	if rt.Dispatcher != nil {
		a.dispatcher.Store(rt.Dispatcher)
	}

	schedCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a.schedCancel = cancel
	go a.scheduler.Run(schedCtx)
	return nil
}

func (a *App) onStop(context.Context, coretelegram.Runtime) error {
	if a.schedCancel != nil {
		a.schedCancel()
	}
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// sendTo delivers one message to one user. The call goes through the
// sender dispatcher so fan-out deliveries pick up its retry and
// flood-wait handling while each recipient's outcome stays visible to
// the broadcast counters.
func (a *App) sendTo(ctx context.Context, userID int64, text string) error {
	bot := a.bot.Load()
	if bot == nil {
		return fmt.Errorf("app: bot not started")
	}
	run := func() error {
		_, err := bot.Send(&tele.User{ID: userID}, text)
		return err
	}
	if d := a.dispatcher.Load(); d != nil {
		return d.Do(ctx, "broadcast", "sendMessage", run)
	}
	return run()
}

// deliverDigest composes the daily digest and sends it to the administrator.
func (a *App) deliverDigest(ctx context.Context) error {
	if a.cfg.Telegram.AdminID == 0 {
		return nil
	}
	digest, err := a.reporter.Digest(ctx)
	if err != nil {
		return err
	}
	return a.sendTo(ctx, a.cfg.Telegram.AdminID, digest)
}
