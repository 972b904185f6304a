package routes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/carlot/dealer-admin/internal/auth"
	"github.com/carlot/dealer-admin/internal/config"
	"github.com/carlot/dealer-admin/internal/inventory"
	"github.com/carlot/dealer-admin/internal/middleware"
	"github.com/carlot/dealer-admin/internal/notification"
	"github.com/carlot/dealer-admin/internal/session"
	"github.com/carlot/dealer-admin/internal/settings"
	"github.com/carlot/dealer-admin/internal/users"
)

const (
	loginPath   = "/login"
	adminRoot   = "/admin"
	landingPath = "/admin/console"
	seedTimeout = 5 * time.Second
)

// Deps aggregates shared dependencies required to wire routes. The
// repositories and session store default to Postgres/Redis when DB/Cache are
// set and to in-memory implementations otherwise.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger

	Users     users.Repository
	Inventory inventory.Repository
	Settings  settings.Repository
	Sessions  session.Store
	Notifier  notification.Notifier
}

// Setup configures middlewares and the routing table. Nothing is added to
// the table after Setup returns.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	d = d.withDefaults()

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.Cfg.IsDev() {
		// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	codec, err := session.NewTokenCodec([]byte(d.Cfg.SessionSecret), d.Cfg.AppName)
	if err != nil {
		return err
	}
	sessionSvc := session.NewService(d.Sessions, d.Users, codec, session.Options{
		TTL:          d.Cfg.SessionTTL,
		StoreTimeout: d.Cfg.StoreTimeout,
	})
	userSvc := users.NewService(d.Users)
	authSvc := auth.NewService(userSvc, sessionSvc, d.Notifier)
	inventorySvc := inventory.NewService(d.Inventory, d.Cfg.StoreTimeout)
	settingsSvc := settings.NewService(d.Settings, d.Notifier, d.Cfg.StoreTimeout)

	if err := seedSettings(settingsSvc, d); err != nil {
		return err
	}

	authHandler := auth.NewHandler(auth.HandlerConfig{
		Service:     authSvc,
		Cookie:      auth.CookieConfig{Name: d.Cfg.SessionCookie, Secure: d.Cfg.CookieSecure},
		AppName:     d.Cfg.AppName,
		LoginPath:   loginPath,
		LandingPath: landingPath,
		Logger:      d.Logger,
	})
	inventoryHandler := inventory.NewHandler(inventorySvc, d.Logger)
	settingsHandler := settings.NewHandler(settingsSvc, d.Logger)

	// Public routes
	RegisterAuthRoutes(app, authHandler,
		middleware.OptionalSession(sessionSvc, d.Cfg.SessionCookie),
		middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit, d.Logger),
	)
	api := app.Group("/api")
	RegisterInventoryRoutes(api, inventoryHandler)
	RegisterSettingsRoutes(api, settingsHandler)

	// Protected routes
	RegisterAdminRoutes(app, AdminRoutes{
		Guard: middleware.GuardConfig{
			Verifier:    sessionSvc,
			CookieName:  d.Cfg.SessionCookie,
			Logger:      d.Logger,
			LoginPath:   loginPath,
			AreaRoot:    adminRoot,
			LandingPath: landingPath,
		},
		AppName:     d.Cfg.AppName,
		Auth:        authHandler,
		Settings:    settingsHandler,
		Inventory:   inventorySvc,
		Logger:      d.Logger,
		Idempotency: middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger),
	})

	return nil
}

func (d Deps) withDefaults() Deps {
	if d.Users == nil {
		if d.DB != nil {
			d.Users = users.NewPostgresRepository(d.DB)
		} else {
			d.Users = users.NewMemoryRepository()
		}
	}
	if d.Inventory == nil {
		if d.DB != nil {
			d.Inventory = inventory.NewPostgresRepository(d.DB)
		} else {
			d.Inventory = inventory.NewMemoryRepository(inventory.DemoCars(time.Now())...)
		}
	}
	if d.Settings == nil {
		if d.DB != nil {
			d.Settings = settings.NewPostgresRepository(d.DB)
		} else {
			d.Settings = settings.NewMemoryRepository()
		}
	}
	if d.Sessions == nil {
		if d.Cache != nil {
			d.Sessions = session.NewRedisStore(d.Cache)
		} else {
			d.Sessions = session.NewMemoryStore()
		}
	}
	if d.Notifier == nil {
		d.Notifier = notification.NewLoggerNotifier(d.Logger)
	}
	return d
}

// seedSettings stores the configured seed (or the defaults) when the
// dealership has no settings yet. A broken seed file stops startup; an
// unreachable store only logs, since the read endpoint reports it anyway.
func seedSettings(svc *settings.Service, d Deps) error {
	seed := settings.Default(d.Cfg.AppName)
	if d.Cfg.SettingsSeedFile != "" {
		loaded, err := settings.LoadSeedFile(d.Cfg.SettingsSeedFile)
		if err != nil {
			return err
		}
		seed = loaded
	}

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()
	wrote, err := svc.EnsureSeeded(ctx, seed)
	if err != nil {
		d.Logger.Warn("settings seed skipped", slog.Any("error", err))
		return nil
	}
	if wrote {
		d.Logger.Info("settings seeded", slog.String("name", seed.Name))
	}
	return nil
}
