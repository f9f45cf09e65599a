// Package logger initializes the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/amptrack/amptrack/internal/config"
)

// Init configures the global logger once at startup. Pretty output is for
// terminals; the default is JSON for log shippers.
func Init(cfg config.LogConf) zerolog.Logger {
	level := zerolog.InfoLevel
	if l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil {
		level = l
	}

	var w io.Writer = os.Stdout
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", "amptrack").
		Logger()

	zlog.Logger = logger
	return logger
}
