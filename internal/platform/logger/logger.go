package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New crea el logger raíz del servicio.
// Salida JSON a stderr; el nivel se parsea desde config (default info).
func New(level string) zerolog.Logger {
	return zerolog.New(os.Stderr).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
