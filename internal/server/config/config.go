// Package config собирает настройки сервера: значения по умолчанию,
// затем переменные окружения, затем флаги командной строки.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Поддерживаемые драйверы хранилища
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Переменные окружения
const (
	EnvAddr       = "USERAUTH_ADDR"
	EnvDBDriver   = "USERAUTH_DB_DRIVER"
	EnvDBPath     = "USERAUTH_DB_PATH"
	EnvDBUsername = "USERAUTH_DB_USERNAME"
	EnvDBPassword = "USERAUTH_DB_PASSWORD"
	EnvDBHost     = "USERAUTH_DB_HOST"
	EnvDBName     = "USERAUTH_DB_NAME"
	EnvLogLevel   = "LOG_LEVEL"
	EnvLogTag     = "USERAUTH_LOG_TAG"
)

// ErrMissingDBName - для postgres имя базы обязательно
var ErrMissingDBName = errors.New("database name is required for postgres")

// Config содержит настройки сервера
type Config struct {
	Addr       string // адрес HTTP сервера
	DBDriver   string // sqlite или postgres
	DBPath     string // путь к файлу SQLite
	DBUsername string
	DBPassword string
	DBHost     string
	DBName     string
	LogLevel   string // debug, info, warn, error
	LogTag     string // тег в начале каждой строки лога
}

// LoadDefaults заполняет Config значениями по умолчанию
func (c *Config) LoadDefaults() {
	c.Addr = ":5000"
	c.DBDriver = DriverSQLite
	c.DBPath = "userauth.db"
	c.DBUsername = "root"
	c.DBPassword = ""
	c.DBHost = "localhost"
	c.DBName = ""
	c.LogLevel = "info"
	c.LogTag = "USERAUTH"
}

// Load собирает конфигурацию: defaults -> env -> flags
// getenv обычно os.Getenv, args - os.Args[1:]
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.applyEnv(getenv)

	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.Addr, EnvAddr)
	set(&c.DBDriver, EnvDBDriver)
	set(&c.DBPath, EnvDBPath)
	set(&c.DBUsername, EnvDBUsername)
	set(&c.DBPassword, EnvDBPassword)
	set(&c.DBHost, EnvDBHost)
	set(&c.DBName, EnvDBName)
	set(&c.LogLevel, EnvLogLevel)
	set(&c.LogTag, EnvLogTag)
}

// parseFlags переопределяет настройки флагами:
//
//	-a string          адрес HTTP сервера
//	-driver string     драйвер хранилища (sqlite, postgres)
//	-db string         путь к файлу SQLite
//	-log-level string  уровень логирования
func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&c.Addr, "a", c.Addr, "HTTP server address")
	fs.StringVar(&c.DBDriver, "driver", c.DBDriver, "storage driver: sqlite or postgres")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "path to SQLite database file")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	return nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("sqlite database path is required")
		}
	case DriverPostgres:
		if c.DBName == "" {
			return ErrMissingDBName
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.DBDriver)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// DSN возвращает строку подключения к PostgreSQL
func (c *Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUsername, c.DBPassword),
		Host:   c.DBHost,
		Path:   "/" + c.DBName,
	}
	if c.DBPassword == "" {
		u.User = url.User(c.DBUsername)
	}

	return u.String()
}

// Level переводит LogLevel в slog.Level
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
