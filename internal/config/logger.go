package config

import (
	"os"

	"github.com/rs/zerolog"
)

// NewLogger builds the root logger.  Development gets a human-readable
// console writer; everything else logs JSON lines to stdout.
func NewLogger(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger.Level(level).With().Str("service", "smart-health-monitoring").Logger()
}
