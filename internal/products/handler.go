package products

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Lelo88/mercado-inventory/internal/httpx"
)

// Mensajes de éxito que se muestran en la lista después del redirect.
const (
	messageCreated = "Produto cadastrado com sucesso."
	messageUpdated = "Produto atualizado com sucesso."
	messageDeleted = "Produto removido."
	messageMissing = "Produto não encontrado."
	messageFailure = "Ocorreu um erro inesperado. Tente novamente."
)

// ServiceAPI define lo que el handler necesita.
// Permite testear handlers con stubs sin tocar DB.
type ServiceAPI interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, fields ProductFields) (Product, error)
	Update(ctx context.Context, id int64, fields ProductFields) (Product, error)
	Delete(ctx context.Context, id int64) error
}

// Renderer es la capa de templates (views.Renderer).
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any)
	Error(w http.ResponseWriter, status int, message string)
}

// ListPage alimenta index.html.
type ListPage struct {
	Products []Product
	Messages []httpx.FlashMessage
}

// FormPage alimenta form.html, tanto para alta ("new") como para edición ("edit").
type FormPage struct {
	Mode     string
	Title    string
	Action   string
	Form     ProductForm
	Error    string
	Messages []httpx.FlashMessage
}

// Handler HTTP para productos.
// Solo traduce HTTP <-> dominio: parsea el formulario, llama al service y decide la respuesta.
type Handler struct {
	service ServiceAPI
	views   Renderer
	flash   *httpx.Flash
	logger  *slog.Logger
}

// NewHandler crea un handler de productos.
func NewHandler(service ServiceAPI, views Renderer, flash *httpx.Flash, logger *slog.Logger) *Handler {
	return &Handler{service: service, views: views, flash: flash, logger: logger}
}

// List maneja GET /. Una lista vacía es un resultado válido.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	products, err := handler.service.List(request.Context())
	if err != nil {
		handler.failure(writer, err)
		return
	}

	handler.views.Render(writer, http.StatusOK, "index.html", ListPage{
		Products: products,
		Messages: handler.flash.Pop(writer, request),
	})
}

// New maneja GET /novo: formulario vacío.
func (handler *Handler) New(writer http.ResponseWriter, request *http.Request) {
	handler.views.Render(writer, http.StatusOK, "form.html", newFormPage(ProductForm{}))
}

// Create maneja POST /novo.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	form, ok := handler.readForm(writer, request)
	if !ok {
		return
	}

	fields, err := ParseProductForm(form)
	if err != nil {
		handler.rejectForm(writer, request, newFormPage(form), err)
		return
	}

	if _, err := handler.service.Create(request.Context(), fields); err != nil {
		handler.failure(writer, err)
		return
	}

	handler.flash.Add(writer, request, httpx.FlashSuccess, messageCreated)
	http.Redirect(writer, request, "/", http.StatusSeeOther)
}

// Edit maneja GET /editar/{id}: formulario precargado con los valores actuales.
func (handler *Handler) Edit(writer http.ResponseWriter, request *http.Request) {
	product, ok := handler.loadProduct(writer, request)
	if !ok {
		return
	}

	handler.views.Render(writer, http.StatusOK, "form.html", editFormPage(product.ID, FormFromProduct(product)))
}

// Update maneja POST /editar/{id}. El 404 se decide antes de mirar el formulario.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	product, ok := handler.loadProduct(writer, request)
	if !ok {
		return
	}

	form, ok := handler.readForm(writer, request)
	if !ok {
		return
	}

	fields, err := ParseProductForm(form)
	if err != nil {
		handler.rejectForm(writer, request, editFormPage(product.ID, form), err)
		return
	}

	if _, err := handler.service.Update(request.Context(), product.ID, fields); err != nil {
		handler.failure(writer, err)
		return
	}

	handler.flash.Add(writer, request, httpx.FlashSuccess, messageUpdated)
	http.Redirect(writer, request, "/", http.StatusSeeOther)
}

// Delete maneja POST /apagar/{id}. Solo se rutea por POST: un GET nunca borra.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	product, ok := handler.loadProduct(writer, request)
	if !ok {
		return
	}

	if err := handler.service.Delete(request.Context(), product.ID); err != nil {
		handler.failure(writer, err)
		return
	}

	handler.flash.Add(writer, request, httpx.FlashWarning, messageDeleted)
	http.Redirect(writer, request, "/", http.StatusSeeOther)
}

// loadProduct resuelve {id}; un id que no es entero positivo es tan inexistente como uno que no está en la base.
func (handler *Handler) loadProduct(writer http.ResponseWriter, request *http.Request) (Product, bool) {
	id, err := strconv.ParseInt(chi.URLParam(request, "id"), 10, 64)
	if err != nil || id < 1 {
		handler.views.Error(writer, http.StatusNotFound, messageMissing)
		return Product{}, false
	}

	product, err := handler.service.Get(request.Context(), id)
	if err != nil {
		handler.failure(writer, err)
		return Product{}, false
	}
	return product, true
}

// readForm decodifica el body al formulario tipado. Campos ausentes quedan vacíos.
func (handler *Handler) readForm(writer http.ResponseWriter, request *http.Request) (ProductForm, bool) {
	if err := request.ParseForm(); err != nil {
		handler.views.Error(writer, http.StatusBadRequest, "Formulário inválido.")
		return ProductForm{}, false
	}

	return ProductForm{
		Type:        request.PostForm.Get("tipo"),
		Description: request.PostForm.Get("descricao"),
		Price:       request.PostForm.Get("valor"),
		Weight:      request.PostForm.Get("peso"),
	}, true
}

// rejectForm vuelve a mostrar el formulario con lo que el usuario escribió y el motivo del rechazo.
// Se renderiza directo (422) en vez de redirigir: un redirect perdería los valores ingresados.
func (handler *Handler) rejectForm(writer http.ResponseWriter, request *http.Request, page FormPage, err error) {
	var validationError *ValidationError
	if !errors.As(err, &validationError) {
		handler.failure(writer, err)
		return
	}

	handler.logger.DebugContext(request.Context(), "product form rejected", "field", validationError.Field, "error", validationError.Err)
	page.Error = validationError.Message
	handler.views.Render(writer, http.StatusUnprocessableEntity, "form.html", page)
}

// failure traduce errores del service: NotFound → 404, el resto → 500 genérico.
func (handler *Handler) failure(writer http.ResponseWriter, err error) {
	if errors.Is(err, ErrorNotFound) {
		handler.views.Error(writer, http.StatusNotFound, messageMissing)
		return
	}
	handler.views.Error(writer, http.StatusInternalServerError, messageFailure)
}

func newFormPage(form ProductForm) FormPage {
	return FormPage{Mode: "new", Title: "Novo", Action: "/novo", Form: form}
}

func editFormPage(id int64, form ProductForm) FormPage {
	return FormPage{Mode: "edit", Title: "Editar", Action: "/editar/" + strconv.FormatInt(id, 10), Form: form}
}
