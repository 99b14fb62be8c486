package config // package config loads application configuration from environment variables

import (
	"errors"  // errors reports missing variables
	"fmt"     // fmt formats validation errors
	"net"     // net builds the listen address
	"os"      // os provides access to environment variables
	"strconv" // strconv validates numeric ports

	"github.com/joho/godotenv" // godotenv loads an optional .env file

	"github.com/iliyamo/smart-health-monitoring/internal/database"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; every variable has a default so the service
// starts with no environment at all, matching a local MySQL on 3306.
type Config struct {
	Env      string // application environment (e.g. "dev", "prod")
	Host     string // interface to bind, all interfaces by default
	Port     string // HTTP port to listen on
	LogLevel string // zerolog level name

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database (schema) name

	Queue     QueueConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// LoadDotEnv loads variables from path (".env" when empty) into the
// process environment.  Variables that are already set win.  A missing
// file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration values from environment variables and returns a
// validated Config.
func Load() (Config, error) {
	cfg := Config{
		Env:      envStr("APP_ENV", "dev"),
		Host:     envStr("APP_HOST", "0.0.0.0"),
		Port:     envStr("APP_PORT", "8081"),
		LogLevel: envStr("LOG_LEVEL", "info"),

		DBUser: envStr("DB_USER", "root"),
		DBPass: os.Getenv("DB_PASS"), // empty allowed
		DBHost: envStr("DB_HOST", "localhost"),
		DBPort: envStr("DB_PORT", "3306"),
		DBName: envStr("DB_NAME", "healthdb"),

		Queue:     LoadQueueConfig(),
		Redis:     LoadRedisConfig(),
		RateLimit: LoadRateLimitConfig(),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values that would only fail later at bind or dial time.
func (c Config) Validate() error {
	if err := validPort("APP_PORT", c.Port); err != nil {
		return err
	}
	if err := validPort("DB_PORT", c.DBPort); err != nil {
		return err
	}
	if c.DBName == "" {
		return errors.New("DB_NAME must not be empty")
	}
	return nil
}

func validPort(key, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("invalid port for %s: %q", key, v)
	}
	return nil
}

// Addr is the host:port the HTTP server listens on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Database returns the connection options for the health database.
func (c Config) Database() database.Options {
	return database.Options{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPass,
		Name:     c.DBName,
	}
}

// IsDev reports whether the service runs in the development environment.
func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "development"
}
