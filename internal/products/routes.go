package products

import "github.com/go-chi/chi/v5"

// RegisterRoutes registra las rutas HTML de productos.
// {id} solo acepta dígitos; cualquier otra cosa cae en el NotFound del router.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Get("/", handler.List)
	route.Get("/novo", handler.New)
	route.Post("/novo", handler.Create)
	route.Get("/editar/{id:[0-9]+}", handler.Edit)
	route.Post("/editar/{id:[0-9]+}", handler.Update)
	route.Post("/apagar/{id:[0-9]+}", handler.Delete)
}
