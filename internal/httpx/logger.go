package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger emite una línea estructurada por request. Los 5xx salen como error.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			start := time.Now()
			wrapped := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)

			next.ServeHTTP(wrapped, request)

			status := wrapped.Status()
			if status == 0 {
				status = http.StatusOK
			}

			attrs := []any{
				"method", request.Method,
				"path", request.URL.Path,
				"route", RoutePattern(request),
				"status", status,
				"bytes", wrapped.BytesWritten(),
				"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
				"request_id", RequestIDFrom(request),
			}

			if status >= http.StatusInternalServerError {
				logger.ErrorContext(request.Context(), "http.request", attrs...)
				return
			}
			logger.InfoContext(request.Context(), "http.request", attrs...)
		})
	}
}

// RoutePattern devuelve el patrón de chi ("/editar/{id}") para no explotar la cardinalidad con ids.
func RoutePattern(request *http.Request) string {
	if routeCtx := chi.RouteContext(request.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
