package products

import (
	"context"
	"errors"
	"log/slog"
)

// RepositoryAPI define lo que el service necesita del store.
// Permite testear el service con fakes sin tocar DB.
type RepositoryAPI interface {
	ListAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (Product, error)
	Insert(ctx context.Context, fields ProductFields) (Product, error)
	Update(ctx context.Context, id int64, fields ProductFields) (Product, error)
	Delete(ctx context.Context, id int64) error
}

// OperationRecorder cuenta operaciones del store (lo implementa metrics.Metrics).
type OperationRecorder interface {
	ObserveProductOperation(operation, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveProductOperation(string, string) {}

// Service recibe campos ya validados; la validación de formulario vive en ParseProductForm.
type Service struct {
	repository RepositoryAPI
	recorder   OperationRecorder
	logger     *slog.Logger
}

// NewService crea un service de productos. recorder puede ser nil.
func NewService(repository RepositoryAPI, recorder OperationRecorder, logger *slog.Logger) *Service {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Service{repository: repository, recorder: recorder, logger: logger}
}

// List devuelve todos los productos ordenados por id descendente.
func (service *Service) List(ctx context.Context) ([]Product, error) {
	products, err := service.repository.ListAll(ctx)
	return products, service.observe(ctx, "list", err)
}

// Get obtiene un producto por ID.
func (service *Service) Get(ctx context.Context, id int64) (Product, error) {
	product, err := service.repository.GetByID(ctx, id)
	return product, service.observe(ctx, "get", err, "id", id)
}

// Create persiste un producto nuevo.
func (service *Service) Create(ctx context.Context, fields ProductFields) (Product, error) {
	product, err := service.repository.Insert(ctx, fields)
	if err == nil {
		service.logger.InfoContext(ctx, "product created", "id", product.ID, "type", product.Type)
	}
	return product, service.observe(ctx, "create", err)
}

// Update reemplaza los campos de un producto existente.
func (service *Service) Update(ctx context.Context, id int64, fields ProductFields) (Product, error) {
	product, err := service.repository.Update(ctx, id, fields)
	if err == nil {
		service.logger.InfoContext(ctx, "product updated", "id", id)
	}
	return product, service.observe(ctx, "update", err, "id", id)
}

// Delete elimina un producto por ID.
func (service *Service) Delete(ctx context.Context, id int64) error {
	err := service.repository.Delete(ctx, id)
	if err == nil {
		service.logger.InfoContext(ctx, "product deleted", "id", id)
	}
	return service.observe(ctx, "delete", err, "id", id)
}

// observe registra el resultado y loguea solo las fallas de persistencia.
// Devuelve err sin tocar para que el caller lo compare con errors.Is.
func (service *Service) observe(ctx context.Context, operation string, err error, attrs ...any) error {
	switch {
	case err == nil:
		service.recorder.ObserveProductOperation(operation, "ok")
	case errors.Is(err, ErrorNotFound):
		service.recorder.ObserveProductOperation(operation, "not_found")
	default:
		service.recorder.ObserveProductOperation(operation, "error")
		service.logger.ErrorContext(ctx, "product store failure",
			append([]any{"operation", operation, "error", err}, attrs...)...)
	}
	return err
}
