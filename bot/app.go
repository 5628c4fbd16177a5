// Package bot implements the guest-registration bot on top of the core
// Telegram runtime: self-registration with an approval handshake, operator
// guest management, roster listing, broadcast and removal.
package bot

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"guestbot/content"
	corecmd "guestbot/core/cmd"
	coredatabase "guestbot/core/database"
	"guestbot/core/logger"
	coretelegram "guestbot/core/telegram"
	"guestbot/core/telegram/commands"
	"guestbot/core/telegram/conversation"
	"guestbot/core/telegram/middleware"
	"guestbot/core/telegram/router"
	tgsender "guestbot/core/telegram/sender"
	"guestbot/guest"
)

// App owns the bot's services and builds the Telegram runtime options.
type App struct {
	cfg     *Config
	guests  *guest.Service
	conv    *conversation.Manager
	content *content.Provider
	db      *sqlx.DB
}

// New initializes logging, the registry store and the conversation engine.
func New(carrier corecmd.ConfigCarrier) (*App, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("bot: unexpected config type %T", carrier)
	}
	if err := logger.InitLogger(cfg.CoreConfig()); err != nil {
		return nil, fmt.Errorf("bot: logger init failed: %w", err)
	}

	ctx := logger.Background()

	var (
		store guest.Store
		db    *sqlx.DB
	)
	switch cfg.Storage.Backend {
	case StorageBackendPostgres:
		if err := coredatabase.RunMigrations(cfg.Storage.Postgres); err != nil {
			return nil, fmt.Errorf("bot: migrations failed: %w", err)
		}
		conn, err := coredatabase.Connect(cfg.Storage.Postgres)
		if err != nil {
			return nil, fmt.Errorf("bot: database initialization failed: %w", err)
		}
		db = conn
		store = guest.NewPGStore(conn)
	default:
		store = guest.NewFileStore(cfg.Storage.File)
	}

	svc, err := guest.NewService(ctx, store)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("bot: registry init failed: %w", err)
	}

	return &App{
		cfg:     cfg,
		guests:  svc,
		conv:    conversation.NewManager(cfg.ConversationTTL()),
		content: content.NewProvider(cfg.Content.Dir),
		db:      db,
	}, nil
}

// TelegramRunOptions assembles registry, middleware chain and routes.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.registerCommands(reg)
	if err := a.registerCallbacks(reg); err != nil {
		return coretelegram.RunOptions{}, err
	}
	reg.SetTextFallback(a.handleText)

	access := middleware.AccessOptions{
		AdminIDs: a.cfg.Core.Telegram.AdminIDs,
		OnReject: func(c tele.Context) error {
			return reply(c, msgNoPermission)
		},
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{Access: access})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a.conv, reg, router.TextOptions{})...)

	opts := coretelegram.RunOptions{
		Config:            a.cfg.CoreConfig(),
		Registry:          reg,
		DispatcherOptions: tgsender.Options{},
		Middlewares:       coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:            routes,
		OnStop: func(_ context.Context, _ coretelegram.Runtime) error {
			if a.db != nil {
				return a.db.Close()
			}
			return nil
		},
	}
	return opts, nil
}

func (a *App) registerCommands(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Главное меню",
	})
	reg.RegisterCommand("/register", commands.Command{
		Handler:     a.handleStartRegistration,
		Description: "Подать заявку на участие",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     a.handleCancel,
		Description: "Отменить текущее действие",
	})
	reg.RegisterCommand("/add_guest", commands.Command{
		Handler:     a.handleAddGuest,
		Description: "Добавить гостя вручную",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/guests", commands.Command{
		Handler:     a.handleListGuests,
		Description: "Список одобренных гостей",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/remove_guest", commands.Command{
		Handler:     a.handleRemoveGuest,
		Description: "Удалить гостя по ID",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/broadcast", commands.Command{
		Handler:     a.handleBroadcast,
		Description: "Рассылка всем гостям",
		AdminOnly:   true,
	})
}

func (a *App) registerCallbacks(reg *coretelegram.Registry) error {
	if err := reg.RegisterCallback(cbApprove, a.requireAdminCallback(a.handleApprove)); err != nil {
		return err
	}
	return reg.RegisterCallback(cbReject, a.requireAdminCallback(a.handleReject))
}

// requireAdminCallback guards approval callbacks against forwarded or
// replayed keyboards pressed by non-privileged users.
func (a *App) requireAdminCallback(h tele.HandlerFunc) tele.HandlerFunc {
	return middleware.WithAdminCheck(middleware.AccessOptions{
		AdminIDs: a.cfg.Core.Telegram.AdminIDs,
		OnReject: func(c tele.Context) error {
			return c.Respond(&tele.CallbackResponse{Text: msgNoPermission})
		},
	}, true, h)
}
