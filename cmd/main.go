package main

import (
	"context"
	"log/slog"

	"github.com/aryamansrivastava/account-service/config"
	"github.com/aryamansrivastava/account-service/db"
	"github.com/aryamansrivastava/account-service/internal/auth/domain"
	"github.com/aryamansrivastava/account-service/internal/auth/handler"
	repo "github.com/aryamansrivastava/account-service/internal/auth/repository/postgres"
	"github.com/aryamansrivastava/account-service/internal/auth/service"
	"github.com/aryamansrivastava/account-service/internal/logger"
	"github.com/aryamansrivastava/account-service/internal/ratelimit"
	"github.com/aryamansrivastava/account-service/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func main() {
	fx.New(options()).Run()
}

func options() fx.Option {
	return fx.Options(
		fx.Provide(
			config.Load,
			logger.New,
			newPostgres,
			newRedis,
		),
		fx.Provide(
			fx.Annotate(repo.NewUserRepository, fx.As(new(domain.UserRepository))),
			fx.Annotate(repo.NewSessionRepository, fx.As(new(domain.SessionRepository))),
			fx.Annotate(repo.NewDeviceRepository, fx.As(new(domain.DeviceRepository))),
		),
		fx.Provide(
			newTokenService,
			newPasswordHasher,
			service.NewUserService,
			service.NewSessionService,
			service.NewDeviceService,
		),
		fx.Provide(
			newSessionManager,
			newRateLimiter,
			handler.NewAuthGate,
			newAuthHandler,
			handler.NewUserHandler,
			handler.NewSessionHandler,
			handler.NewDeviceHandler,
			newApp,
		),
		fx.Invoke(startServer),
	)
}

// newPostgres applies pending migrations before handing out the pool.
func newPostgres(lc fx.Lifecycle, cfg *config.Config) (repo.DB, error) {
	ctx := context.Background()
	if err := db.Migrate(ctx, cfg.DBURL); err != nil {
		return nil, err
	}

	pool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(pool.Close))
	return pool, nil
}

// newRedis returns a nil client when REDIS_URL is unset; sessions and rate
// counters then stay in process memory.
func newRedis(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) (redis.UniversalClient, error) {
	if cfg.RedisURL == "" {
		log.Warn("REDIS_URL not set, keeping sessions and rate limits in memory")
		return nil, nil
	}

	client, err := db.NewRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(client.Close))
	return client, nil
}

func newTokenService(cfg *config.Config) service.TokenGenerator {
	return service.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry())
}

func newPasswordHasher(cfg *config.Config) service.PasswordHasher {
	return service.NewBcryptHasher(cfg.BcryptCost)
}

func newSessionManager(cfg *config.Config, rdb redis.UniversalClient) *session.Manager {
	opts := session.Options{
		CookieName: cfg.SessionCookieName,
		MaxAge:     cfg.SessionMaxAge(),
		Secure:     cfg.CookieSecure,
	}
	if rdb != nil {
		opts.Storage = session.NewRedisStorage(rdb, session.DefaultKeyPrefix)
	}
	return session.NewManager(opts)
}

func newRateLimiter(cfg *config.Config, rdb redis.UniversalClient) *ratelimit.Limiter {
	var store ratelimit.Store = ratelimit.NewMemoryStore()
	if rdb != nil {
		store = ratelimit.NewRedisStore(rdb, "ratelimit:")
	}
	return ratelimit.New(store, cfg.RateLimitMax, cfg.RateLimitWindow())
}

func newAuthHandler(
	cfg *config.Config,
	userService *service.UserService,
	tokens service.TokenGenerator,
	sessions *session.Manager,
) *handler.AuthHandler {
	return handler.NewAuthHandler(userService, tokens, sessions, cfg.CookieSecure)
}

type appParams struct {
	fx.In

	Config   *config.Config
	Logger   *slog.Logger
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Sessions *handler.SessionHandler
	Devices  *handler.DeviceHandler
	Gate     *handler.AuthGate
	Limiter  *ratelimit.Limiter
}

func newApp(p appParams) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "account-service",
		ErrorHandler:          handler.ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(handler.RequestLogger(p.Logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: p.Config.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
		// fiber refuses credentials together with a wildcard origin.
		AllowCredentials: p.Config.CORSOrigins != "*",
	}))
	app.Use(session.EncryptCookies(p.Config.SessionSecret, handler.TokenCookieName))

	handler.RegisterRoutes(app, handler.Handlers{
		Auth:     p.Auth,
		Users:    p.Users,
		Sessions: p.Sessions,
		Devices:  p.Devices,
		Gate:     p.Gate,
		Limiter:  p.Limiter,
	})
	return app
}

func startServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, log *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("server starting", slog.String("port", cfg.Port))
				if err := app.Listen(":" + cfg.Port); err != nil {
					log.Error("server stopped", slog.String("error", err.Error()))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("server shutting down")
			return app.ShutdownWithContext(ctx)
		},
	})
}
