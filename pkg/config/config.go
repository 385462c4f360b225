package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "PEDIDOS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Remote RemoteConfig
	Notify NotifyConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PEDIDOS_APP_ENV" default:"dev"`
	Port         string `envconfig:"PEDIDOS_APP_PORT" default:"8600"`
	LogLevel     string `envconfig:"PEDIDOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PEDIDOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Path string `envconfig:"PEDIDOS_DB_PATH" default:"pedidos.db"`

	MaxOpenConns    int           `envconfig:"PEDIDOS_DB_MAX_OPEN_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"PEDIDOS_DB_CONN_MAX_LIFETIME" default:"1h"`
}

// RemoteConfig bounds the calls against the user-configured server.
// The base URL itself is user data and lives in the settings store.
type RemoteConfig struct {
	GetTimeout  time.Duration `envconfig:"PEDIDOS_REMOTE_GET_TIMEOUT" default:"15s"`
	PostTimeout time.Duration `envconfig:"PEDIDOS_REMOTE_POST_TIMEOUT" default:"10s"`
}

type NotifyConfig struct {
	QueueSize int `envconfig:"PEDIDOS_NOTIFY_QUEUE_SIZE" default:"16"`
}
