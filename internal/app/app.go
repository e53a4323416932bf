// Package app wires the bot's handlers, conversation flow, and storage
// into the shared telegram runtime.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"kinobot/core/bootstrap"
	corecmd "kinobot/core/cmd"
	"kinobot/core/logger"
	coretelegram "kinobot/core/telegram"
	"kinobot/core/telegram/commands"
	tghelpers "kinobot/core/telegram/helpers"
	"kinobot/core/telegram/middleware"
	"kinobot/core/telegram/router"
	"kinobot/core/telegram/state"
	"kinobot/internal/dialog"
	"kinobot/internal/keepalive"
	"kinobot/internal/storage"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// App holds the bot's runtime dependencies.
type App struct {
	cfg   *Config
	db    *sqlx.DB
	store *storage.Storage
	fsm   state.Manager
	flow  *dialog.Flow
}

// Bootstrap initializes infrastructure and builds the application.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Core,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	store := storage.New(res.DB)

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, seeder := range []bootstrap.Seeder{adminSeeder(cfg.Seed)} {
		if err := seeder.Seed(seedCtx, store); err != nil {
			_ = res.DB.Close()
			return nil, fmt.Errorf("app: seeding failed: %w", err)
		}
	}

	fsm := state.NewMemoryManager()
	a := &App{
		cfg:   cfg,
		db:    res.DB,
		store: store,
		fsm:   fsm,
		flow:  dialog.NewFlow(fsm, store),
	}
	a.registerConversationHandlers()
	return a, nil
}

// TelegramRunOptions assembles routes and middleware for the bot runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Botni ishga tushirish",
	})
	for name, def := range a.adminCommands() {
		reg.RegisterCommand(name, def)
	}

	// Registration buttons are only shown to admins, but callback data can
	// be forged, so the handlers enforce the check themselves.
	adminGate := middleware.AdminOptions{
		OwnerID: a.cfg.Core.Telegram.OwnerID,
		IsAdmin: a.isAdmin,
		OnReject: func(c tele.Context) error {
			return tghelpers.SendText(c, msgNotAllowed)
		},
	}
	guarded := map[string]tele.HandlerFunc{
		"add_command": a.cbAddCommand,
		"panel":       a.cbPanel,
		"sub":         a.cbSubPanel,
	}
	for key, h := range guarded {
		if err := reg.RegisterCallback(key, middleware.WithAdminCheck(adminGate, h)); err != nil {
			return coretelegram.RunOptions{}, err
		}
	}
	if err := reg.RegisterCallback("browse", a.cbBrowse); err != nil {
		return coretelegram.RunOptions{}, err
	}
	if err := reg.RegisterCallback("bsub", a.cbBrowseSub); err != nil {
		return coretelegram.RunOptions{}, err
	}
	if err := reg.RegisterCallback("ball", a.cbBrowseAll); err != nil {
		return coretelegram.RunOptions{}, err
	}
	reg.SetTextFallback(a.handleCodeLookup)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		OwnerID: a.cfg.Core.Telegram.OwnerID,
		IsAdmin: a.isAdmin,
		OnAdminReject: func(c tele.Context) error {
			return tghelpers.SendText(c, msgNotAllowed)
		},
	})
	routes = append(routes, router.TextRoutes(a.fsm, reg, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	return coretelegram.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      routes,
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *App) onStart(ctx context.Context, _ coretelegram.Runtime) error {
	ka := a.cfg.Core.KeepAlive
	if ka.Enabled {
		url := ka.URL
		if url == "" {
			url = a.cfg.Core.Webhook.URL
		}
		interval := time.Duration(ka.IntervalSeconds) * time.Second
		go keepalive.Run(ctx, keepalive.Options{URL: url, Interval: interval})
	}
	return nil
}

func (a *App) onStop(context.Context, coretelegram.Runtime) error {
	return a.db.Close()
}

// isAdmin backs the admin-only middleware. Owner id is checked by the
// middleware itself; this consults the admins table.
func (a *App) isAdmin(ctx context.Context, userID int64) bool {
	ok, err := a.store.IsAdmin(ctx, userID)
	if err != nil {
		logger.LogEvent(ctx, logger.SVCStorage, slog.LevelWarn, "admin.check.fail",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return false
	}
	return ok
}
