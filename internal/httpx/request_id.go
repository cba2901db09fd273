package httpx

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader es el header por el que viaja el id de la request en ambos sentidos.
const RequestIDHeader = "X-Request-Id"

// RequestID reemplaza al middleware.RequestID de chi: respeta el id entrante
// y si no hay uno genera un UUID. Lo guarda en el contexto con la misma clave que chi.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestID := request.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		writer.Header().Set(RequestIDHeader, requestID)
		ctx := context.WithValue(request.Context(), middleware.RequestIDKey, requestID)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RequestIDFrom lee el request id: primero del contexto, después del header.
func RequestIDFrom(request *http.Request) string {
	if request == nil {
		return ""
	}
	if requestID := middleware.GetReqID(request.Context()); requestID != "" {
		return requestID
	}
	return request.Header.Get(RequestIDHeader)
}
