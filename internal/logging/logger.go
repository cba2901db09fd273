package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New crea un logger JSON con el nivel pedido. Niveles desconocidos caen en info.
func New(writer io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel traduce el nivel de configuración a slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
