package main

import (
	"github.com/dmitrymomot/httpdispatch/pkg/httpserver"
	"github.com/dmitrymomot/httpdispatch/pkg/redis"
	"github.com/dmitrymomot/httpdispatch/pkg/server"
)

type appConfig struct {
	Env        string `env:"APP_ENV" envDefault:"production"`
	LogLevel   string `env:"LOG_LEVEL"`
	LogFormat  string `env:"LOG_FORMAT"`
	LogFile    string `env:"LOG_FILE"`
	LogBuffer  int    `env:"LOG_BUFFER" envDefault:"1024"`
	RoutesFile string `env:"ROUTES_FILE"`

	Server server.Config
	Admin  httpserver.Config
	Redis  redis.Config
}
