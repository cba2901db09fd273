package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// Response es el sobre JSON de los endpoints operativos (/health, /ready).
// Las páginas de productos son HTML y no pasan por acá.
type Response struct {
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
	Meta  *Meta      `json:"meta,omitempty"`
}

// Meta acompaña cada respuesta para poder correlacionarla con los logs.
type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	TimeUTC   string `json:"time_utc,omitempty"`
}

// ErrorBody describe un error sin exponer detalles internos.
type ErrorBody struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// JSON escribe la respuesta. Si no se puede serializar, responde 500 en texto plano.
func JSON(w http.ResponseWriter, status int, resp Response) {
	body, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, `{"error":{"code":"internal","message":"internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// OK devuelve una respuesta exitosa con data.
func OK(w http.ResponseWriter, r *http.Request, status int, data any) {
	JSON(w, status, Response{Data: data, Meta: metaFor(r)})
}

// Fail devuelve un error estructurado.
func Fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	JSON(w, status, Response{
		Error: &ErrorBody{Code: code, Message: message},
		Meta:  metaFor(r),
	})
}

func metaFor(r *http.Request) *Meta {
	return &Meta{
		RequestID: RequestIDFrom(r),
		TimeUTC:   time.Now().UTC().Format(time.RFC3339),
	}
}
