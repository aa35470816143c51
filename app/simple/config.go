package simple

import (
	"github.com/nexora/webkit/core/cookie"
	"github.com/nexora/webkit/core/server"
	"github.com/nexora/webkit/core/session"
	"github.com/nexora/webkit/integration/database/pg"
	"github.com/nexora/webkit/integration/database/redis"
)

type Config struct {
	DB      pg.Config
	Redis   redis.Config
	Cookie  cookie.Config
	Session session.Config
	Server  server.Config

	AppName  string `env:"APP_NAME" envDefault:"simple-support"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	HttpHost string `env:"HTTP_HOST" envDefault:"localhost"`
	HttpPort string `env:"HTTP_PORT" envDefault:"8080"`
}
