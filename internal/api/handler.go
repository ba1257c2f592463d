package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"podofarma/m/internal/auth"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	db   *sqlx.DB
	auth *auth.Service
	log  *zap.Logger
}

// New constructs a Handler.
func New(db *sqlx.DB, authSvc *auth.Service, logger *zap.Logger) *Handler {
	return &Handler{db: db, auth: authSvc, log: logger}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.login)
			r.Post("/logout", h.logout)
			r.Get("/me", h.me)
		})

		// Catalog reads are open so the storefront can render without a session.
		r.Get("/categorias", h.listCategorias)
		r.Get("/productos", h.listProductos)
		r.Get("/productos/{id}", h.getProducto)

		r.Group(func(pr chi.Router) {
			pr.Use(h.requireAuth)

			pr.Post("/categorias", h.createCategoria)

			pr.Post("/productos", h.createProducto)
			pr.Put("/productos/{id}", h.updateProducto)
			pr.Patch("/productos/{id}", h.toggleProducto)

			pr.Route("/clientes", func(r chi.Router) {
				r.Get("/", h.listClientes)
				r.Post("/", h.createCliente)
				r.Get("/{id}", h.getCliente)
				r.Put("/{id}", h.updateCliente)
				r.Patch("/{id}", h.toggleCliente)
			})

			pr.Route("/proveedores", func(r chi.Router) {
				r.Get("/", h.listProveedores)
				r.Post("/", h.createProveedor)
				r.Put("/{id}", h.updateProveedor)
				r.Delete("/{id}", h.deleteProveedor)
			})

			pr.Route("/usuarios", func(r chi.Router) {
				r.Get("/", h.listUsuarios)
				r.Post("/", h.createUsuario)
				r.Put("/{id}", h.updateUsuario)
			})

			pr.Route("/ventas", func(r chi.Router) {
				r.Get("/", h.listVentas)
				r.Post("/", h.createVenta)
				r.Get("/{id}", h.getVenta)
			})

			pr.Route("/compras", func(r chi.Router) {
				r.Get("/", h.listCompras)
				r.Post("/", h.createCompra)
				r.Get("/{id}", h.getCompra)
			})
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
