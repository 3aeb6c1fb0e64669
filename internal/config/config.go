// Package config loads the settings of both tiers from defaults, an
// optional YAML file, .env files and the process environment.
package config

import (
	"io"
	"time"

	"github.com/koustreak/tierline/internal/database"
	"github.com/koustreak/tierline/internal/gateway/backend"
	"github.com/koustreak/tierline/internal/logger"
)

// DefaultBackendURL is the in-cluster address of the data-access tier.
const DefaultBackendURL = "http://backend-api-service.multi-tier-app.svc.cluster.local:80/api/data"

// Config is the full configuration. Each subcommand reads the sections it needs.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	API      APIConfig      `koanf:"api"`
	Gateway  GatewayConfig  `koanf:"gateway"`
	Log      LogConfig      `koanf:"log"`
}

// DatabaseConfig is the data-access tier's store connection.
type DatabaseConfig struct {
	Driver       string        `koanf:"driver"        validate:"oneof=postgres mysql"`
	Host         string        `koanf:"host"          validate:"required"`
	Port         int           `koanf:"port"          validate:"gte=0,lte=65535"`
	User         string        `koanf:"user"`
	Password     string        `koanf:"password"`
	Name         string        `koanf:"name"`
	SSLMode      string        `koanf:"sslmode"`
	MaxConns     int32         `koanf:"max_conns"     validate:"gte=1"`
	QueryTimeout time.Duration `koanf:"query_timeout" validate:"gte=0"`
}

type APIConfig struct {
	Addr string `koanf:"addr" validate:"required"`
}

type GatewayConfig struct {
	Addr           string        `koanf:"addr"            validate:"required"`
	BackendURL     string        `koanf:"backend_url"     validate:"required,url"`
	BackendTimeout time.Duration `koanf:"backend_timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `koanf:"level"  validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	db := database.DefaultConfig()
	return &Config{
		Database: DatabaseConfig{
			Driver:       string(db.Driver),
			Host:         db.Host,
			MaxConns:     db.MaxConns,
			QueryTimeout: db.QueryTimeout,
		},
		API:     APIConfig{Addr: ":3001"},
		Gateway: GatewayConfig{Addr: ":8080", BackendURL: DefaultBackendURL, BackendTimeout: backend.DefaultTimeout},
		Log:     LogConfig{Level: "info", Format: "json"},
	}
}

// Pool converts the section into driver settings, keeping database
// defaults for the pool knobs that are not configurable.
func (c DatabaseConfig) Pool() *database.Config {
	cfg := database.DefaultConfig()
	cfg.Driver = database.Driver(c.Driver)
	cfg.Host = c.Host
	cfg.Port = c.Port
	cfg.User = c.User
	cfg.Password = c.Password
	cfg.Database = c.Name
	cfg.SSLMode = c.SSLMode
	cfg.MaxConns = c.MaxConns
	cfg.QueryTimeout = c.QueryTimeout
	return cfg
}

// Logger converts the section into logger settings writing to out.
func (c LogConfig) Logger(out io.Writer) *logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = c.Level
	cfg.Format = c.Format
	cfg.Output = out
	return cfg
}
