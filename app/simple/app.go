package simple

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nexora/webkit/core/config"
	"github.com/nexora/webkit/core/cookie"
	"github.com/nexora/webkit/core/logger"
	"github.com/nexora/webkit/core/router"
	"github.com/nexora/webkit/core/server"
	"github.com/nexora/webkit/core/session"
	"github.com/nexora/webkit/core/sessiontransport"
	"github.com/nexora/webkit/integration/database/redis"
	"github.com/nexora/webkit/pkg/ratelimiter"
)

type App struct {
	config      Config
	router      router.Router[*Context]
	server      *server.Server
	cookie      *cookie.Manager
	session     *session.Manager[SessionData]
	rateLimiter ratelimiter.RateLimiter
	logger      *slog.Logger
}

type AppOption func(*App) error

func NewApp(opts ...AppOption) (*App, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	app := &App{
		config: cfg,
		logger: logger.New(),
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.router == nil {
		app.router = router.New(router.WithContextFactory(newContext))
	}

	if app.cookie == nil {
		cm, err := cookie.NewFromConfig(app.config.Cookie)
		if err != nil {
			return nil, err
		}
		app.cookie = cm
	}

	if app.session == nil {
		sm, err := session.NewFromConfig[SessionData](
			app.config.Session,
			session.WithLogger[SessionData](app.logger),
			session.WithTransport[SessionData](sessiontransport.NewCookie(app.cookie)),
		)
		if err != nil {
			return nil, err
		}
		app.session = sm
	}

	if app.rateLimiter == nil {
		limiter, err := newDefaultRateLimiter(app.config)
		if err != nil {
			return nil, err
		}
		app.rateLimiter = limiter
	}

	if app.server == nil {
		s, err := server.NewFromConfig(app.config.Server)
		if err != nil {
			return nil, err
		}
		app.server = s
	}

	return app, nil
}

// rateLimitConfig bounds requests to 100 per minute per key, enough to
// absorb normal traffic bursts while still blocking abusive clients.
var rateLimitConfig = ratelimiter.Config{
	Capacity:       100,
	RefillRate:     100,
	RefillInterval: time.Minute,
}

// newDefaultRateLimiter backs the rate limiter with Redis when a connection
// URL is configured, so limits are shared across every instance of the app;
// otherwise it falls back to a single-process in-memory store.
func newDefaultRateLimiter(cfg Config) (ratelimiter.RateLimiter, error) {
	if cfg.Redis.ConnectionURL == "" {
		return ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), rateLimitConfig)
	}

	client, err := redis.Connect(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	return ratelimiter.NewBucket(redis.NewRateLimitStore(client, "ratelimit:"), rateLimitConfig)
}

func WithLogger(logger *slog.Logger) AppOption {
	return func(app *App) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = logger
		return nil
	}
}

func WithRouter(router router.Router[*Context]) AppOption {
	return func(app *App) error {
		if router == nil {
			return errors.New("router cannot be nil")
		}
		app.router = router
		return nil
	}
}

func WithServer(server *server.Server) AppOption {
	return func(app *App) error {
		if server == nil {
			return errors.New("server cannot be nil")
		}
		app.server = server
		return nil
	}
}

func WithCookieManager(cookie *cookie.Manager) AppOption {
	return func(app *App) error {
		if cookie == nil {
			return errors.New("cookie manager cannot be nil")
		}
		app.cookie = cookie
		return nil
	}
}

func WithSessionManager(session *session.Manager[SessionData]) AppOption {
	return func(app *App) error {
		if session == nil {
			return errors.New("session manager cannot be nil")
		}
		app.session = session
		return nil
	}
}

func WithRateLimiter(limiter ratelimiter.RateLimiter) AppOption {
	return func(app *App) error {
		if limiter == nil {
			return errors.New("rate limiter cannot be nil")
		}
		app.rateLimiter = limiter
		return nil
	}
}
