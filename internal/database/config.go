package database

import (
	"net"
	"strconv"
	"time"
)

// Driver identifies the database engine.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
)

// Dialect returns the SQL dialect the query builder should emit for d.
func (d Driver) Dialect() Dialect {
	if d == DriverMySQL {
		return DialectMySQL
	}
	return DialectPostgres
}

// Config holds all settings needed to connect to and pool a database.
type Config struct {
	// Driver is the database engine (e.g. DriverPostgres).
	Driver Driver

	Host     string
	Port     int // 0 selects the driver default (5432 / 3306)
	User     string
	Password string
	Database string
	SSLMode  string // postgres only; empty means "disable"

	// Pool tuning
	MaxConns        int32         // upper bound on live connections; acquisition blocks beyond it
	MinConns        int32         // idle connections kept warm; 0 keeps the pool lazy
	MaxConnLifetime time.Duration // maximum time a connection may be reused
	MaxConnIdleTime time.Duration // maximum time a connection may sit idle

	// Timeouts
	ConnectTimeout time.Duration // time limit for establishing a new connection
	QueryTimeout   time.Duration // default per-query deadline (applied by callers)
}

// DefaultConfig returns pool settings for a small read-only service.
// The pool starts empty and fills on demand.
func DefaultConfig() *Config {
	return &Config{
		Driver:          DriverPostgres,
		Host:            "localhost",
		MaxConns:        10,
		MinConns:        0,
		MaxConnLifetime: 30 * time.Minute,
		MaxConnIdleTime: 5 * time.Minute,
		ConnectTimeout:  5 * time.Second,
		QueryTimeout:    30 * time.Second,
	}
}

// Addr returns host:port, substituting the driver's default port when Port is 0.
func (c *Config) Addr() string {
	port := c.Port
	if port == 0 {
		switch c.Driver {
		case DriverMySQL:
			port = 3306
		default:
			port = 5432
		}
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}
