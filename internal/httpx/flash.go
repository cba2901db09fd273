package httpx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

// Categorías de mensaje; el template las usa como clase CSS.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashWarning = "warning"
)

const flashCookieName = "flash"

// FlashMessage es un mensaje de un solo uso que sobrevive a un redirect.
type FlashMessage struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// Flash guarda mensajes en una cookie firmada con HMAC-SHA256.
// No hay estado en el servidor: la cookie es la única fuente.
type Flash struct {
	secret []byte
}

// NewFlash crea el almacén de mensajes con la clave de firma.
func NewFlash(secret string) *Flash {
	return &Flash{secret: []byte(secret)}
}

// Add agrega un mensaje a los que ya estuvieran pendientes en la request.
func (flash *Flash) Add(w http.ResponseWriter, r *http.Request, category, text string) {
	messages := append(flash.read(r), FlashMessage{Category: category, Text: text})

	payload, err := json.Marshal(messages)
	if err != nil {
		return
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    encoded + "." + flash.sign(encoded),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop devuelve los mensajes pendientes y borra la cookie.
func (flash *Flash) Pop(w http.ResponseWriter, r *http.Request) []FlashMessage {
	if _, err := r.Cookie(flashCookieName); err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return flash.read(r)
}

// read ignora cookies adulteradas o corruptas: se tratan como "sin mensajes".
func (flash *Flash) read(r *http.Request) []FlashMessage {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}

	encoded, signature, ok := strings.Cut(cookie.Value, ".")
	if !ok || !hmac.Equal([]byte(signature), []byte(flash.sign(encoded))) {
		return nil
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}

	var messages []FlashMessage
	if err := json.Unmarshal(payload, &messages); err != nil {
		return nil
	}
	return messages
}

func (flash *Flash) sign(value string) string {
	mac := hmac.New(sha256.New, flash.secret)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
