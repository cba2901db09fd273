package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"github.com/Lelo88/mercado-inventory/internal/httpx"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Cada página se parsea junto al layout para que todas compartan "layout".
var pages = []string{"index.html", "form.html", "error.html"}

// ErrorPage alimenta error.html (404, 405, 500).
type ErrorPage struct {
	Status   int
	Title    string
	Message  string
	Messages []httpx.FlashMessage
}

// Renderer ejecuta los templates HTML embebidos.
type Renderer struct {
	templates map[string]*template.Template
}

// New parsea todas las páginas al arrancar; un template roto impide levantar la app.
func New() (*Renderer, error) {
	return newRenderer(templatesFS)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page).ParseFS(fsys, "templates/layout.html", path.Join("templates", page))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		templates[page] = tmpl
	}
	return &Renderer{templates: templates}, nil
}

// Render escribe la página con el status dado. Se renderiza primero a un buffer:
// si el template falla, el cliente recibe un 500 limpio y no HTML a medias.
func (renderer *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := renderer.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Error renderiza la página de error genérica.
func (renderer *Renderer) Error(w http.ResponseWriter, status int, message string) {
	renderer.Render(w, status, "error.html", ErrorPage{
		Status:  status,
		Title:   http.StatusText(status),
		Message: message,
	})
}
