// Package app assembles the application collaborators on top of the
// bootstrapped infrastructure and hands them to the telegram runtime.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/m3rciful/applybot/core/bootstrap"
	"github.com/m3rciful/applybot/core/logger"
	tg "github.com/m3rciful/applybot/core/telegram"
	tghelpers "github.com/m3rciful/applybot/core/telegram/helpers"
	"github.com/m3rciful/applybot/core/telegram/sequencer"
	"github.com/m3rciful/applybot/core/telegram/state"
	"github.com/m3rciful/applybot/internal/bot"
	"github.com/m3rciful/applybot/internal/broadcast"
	"github.com/m3rciful/applybot/internal/config"
	"github.com/m3rciful/applybot/internal/metrics"
	"github.com/m3rciful/applybot/internal/questionnaire"
	"github.com/m3rciful/applybot/internal/storage"
	"github.com/m3rciful/applybot/internal/submission"
	"github.com/m3rciful/applybot/migrations"

	tele "gopkg.in/telebot.v4"
)

const textRateLimited = "Слишком много сообщений. Подождите немного."

// Options tweak New; the zero value builds the production graph.
type Options struct {
	// Offline skips the getMe call when the bot is created.
	Offline bool
	// Broadcast replaces the bot as the channel sender.
	Broadcast broadcast.Sender
	// Registry receives the metrics; a fresh one is created when nil.
	Registry *prometheus.Registry
}

// App owns every long-lived collaborator of the bot.
type App struct {
	cfg *config.Config
	db  *sqlx.DB

	bot       *tele.Bot
	registry  *tg.Registry
	sequencer *sequencer.Sequencer
	handlers  *bot.Handlers
	machine   *questionnaire.Machine
	repo      *storage.ApplicationRepository

	metrics       *metrics.Metrics
	metricsServer *metrics.Server
}

// Bootstrap initializes logging, the database and its schema, then builds the App.
func Bootstrap(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	return bootstrap.RunWith[*App](context.Background(), bootstrap.Options{
		Config:     cfg.CoreConfig(),
		Database:   cfg.Database,
		Migrations: migrations.FS,
	}, bootstrap.ServiceProviderFunc[*App](func(ctx context.Context, res *bootstrap.Result) (*App, error) {
		return New(ctx, cfg, res.DB, Options{})
	}))
}

// New wires the application over an open, migrated database.
func New(ctx context.Context, cfg *config.Config, db *sqlx.DB, opts Options) (*App, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("app: nil config or db")
	}
	start := time.Now()

	b, err := tg.NewBot(cfg.CoreConfig(), tg.BotOptions{Synchronous: true, Offline: opts.Offline})
	if err != nil {
		return nil, err
	}

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	sessions := state.NewMemoryStore()
	m := metrics.New(reg, sessions.Active)

	repo, err := storage.NewApplicationRepository(db)
	if err != nil {
		return nil, err
	}
	to, err := cfg.Broadcast.Recipient()
	if err != nil {
		return nil, err
	}
	var sender broadcast.Sender = b
	if opts.Broadcast != nil {
		sender = opts.Broadcast
	}
	channel, err := broadcast.New(sender, to)
	if err != nil {
		return nil, err
	}
	assembler, err := submission.NewAssembler(repo, channel, m)
	if err != nil {
		return nil, err
	}
	machine, err := questionnaire.New(sessions, assembler, m)
	if err != nil {
		return nil, err
	}
	handlers, err := bot.New(machine)
	if err != nil {
		return nil, err
	}
	registry := tg.NewRegistry()
	if err := handlers.Register(registry); err != nil {
		return nil, err
	}

	a := &App{
		cfg:       cfg,
		db:        db,
		bot:       b,
		registry:  registry,
		sequencer: sequencer.New(),
		handlers:  handlers,
		machine:   machine,
		repo:      repo,
		metrics:   m,
	}
	if cfg.Metrics.Listen != "" {
		a.metricsServer = metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path, m.Handler())
	}

	stored, err := repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	logger.Info(ctx, logger.CompApp, "app.wired",
		slog.Int64("applications_stored", stored),
		slog.String("channel", to.Recipient()),
		slog.Int("transitions", len(machine.Transitions())),
		slog.Bool("metrics", a.metricsServer != nil),
		slog.Duration("took", logger.Took(start)),
	)
	return a, nil
}

// TelegramRunOptions implements cmd.TelegramApp.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	core := a.cfg.CoreConfig()
	return tg.RunOptions{
		Config:    core,
		Registry:  a.registry,
		Bot:       a.bot,
		Sequencer: a.sequencer,
		Middlewares: tg.DefaultMiddlewares(core, tg.MiddlewareOptions{
			OnLimited: func(c tele.Context) error { return tghelpers.SendText(c, textRateLimited) },
			Updates:   a.metrics.Updates,
		}),
		Routes:  a.handlers.Routes(a.registry),
		OnStart: a.onStart,
		OnStop:  a.onStop,
	}, nil
}

func (a *App) onStart(ctx context.Context, _ tg.Runtime) error {
	logger.Debug(ctx, logger.CompFSM, "graph", slog.String("dot", a.machine.Graph()))
	if a.metricsServer == nil {
		return nil
	}
	return a.metricsServer.Start(ctx)
}

func (a *App) onStop(ctx context.Context, _ tg.Runtime) error {
	var errs []error
	if a.metricsServer != nil {
		sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		errs = append(errs, a.metricsServer.Shutdown(sctx))
		cancel()
	}
	errs = append(errs, a.Close())
	return errors.Join(errs...)
}

// Close releases the database pool.
func (a *App) Close() error {
	if err := a.db.Close(); err != nil {
		logger.Error(context.Background(), logger.CompDB, "db.close", slog.String("err", err.Error()))
		return err
	}
	logger.Info(context.Background(), logger.CompDB, "db.close", slog.String("status", "ok"))
	return nil
}
