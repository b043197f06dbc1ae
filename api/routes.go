package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hidromont/site-backend/errs"
)

// setupPublicRoutes registers the routes anyone may call. An admin session
// only changes what they return.
func setupPublicRoutes(r chi.Router, handlers *routeHandlers, deps Dependencies) {
	r.Get("/", handlers.healthHandler.health())
	r.Get("/health", handlers.healthHandler.health())

	r.Post("/orders", handlers.orderHandler.createOrder())

	r.Get("/projects", handlers.projectHandler.listProjects())
	r.Get("/projects/{slug}", handlers.projectHandler.getProject())
	r.Get("/products", handlers.productHandler.listProducts())
	r.Get("/products/{slug}", handlers.productHandler.getProduct())

	serveProjects := handlers.uploadHandler.serve(deps.ProjectFiles)
	serveProducts := handlers.uploadHandler.serve(deps.ProductFiles)
	r.Get("/uploads/projects/*", serveProjects)
	r.Head("/uploads/projects/*", serveProjects)
	r.Get("/uploads/products/*", serveProducts)
	r.Head("/uploads/products/*", serveProducts)
}

// setupAdminRoutes registers everything under /admin. Only login is open;
// every other path, known or not, needs a session.
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, admin adminMiddleware) {
	r.NotFound(admin.routeNotFound)
	r.MethodNotAllowed(admin.routeNotFound)

	r.Post("/login", handlers.adminHandler.login())

	r.Group(func(r chi.Router) {
		r.Use(admin.requireAdmin)

		r.Post("/logout", handlers.adminHandler.logout())

		r.Group(func(r chi.Router) {
			r.Use(admin.purgeOnWrite)

			projects := handlers.projectHandler
			r.Get("/projects", projects.listProjects())
			r.Post("/projects", projects.createProject())
			r.Get("/projects/{id:[0-9]+}", projects.getProjectByID())
			r.Put("/projects/{id:[0-9]+}", projects.updateProject())
			r.Delete("/projects/{id:[0-9]+}", projects.deleteProject())
			r.Post("/projects/{id:[0-9]+}/hero", projects.uploadHero())
			r.Post("/projects/{id:[0-9]+}/media", projects.uploadMedia())
			r.Delete("/projects/{id:[0-9]+}/media/{mediaID:[0-9]+}", projects.deleteMedia())

			products := handlers.productHandler
			r.Get("/products", products.adminListProducts())
			r.Post("/products", products.createProduct())
			r.Get("/products/{id:[0-9]+}", products.getProductByID())
			r.Put("/products/{id:[0-9]+}", products.updateProduct())
			r.Delete("/products/{id:[0-9]+}", products.deleteProduct())
			r.Post("/products/{id:[0-9]+}/image", products.uploadImage())
			r.Post("/products/{id:[0-9]+}/document", products.uploadDocument())
			r.Post("/products/{id:[0-9]+}/media", products.uploadMedia())
			r.Delete("/products/{id:[0-9]+}/media/{mediaID:[0-9]+}", products.deleteMedia())

			orders := handlers.orderHandler
			r.Get("/orders", orders.listOrders())
			r.Put("/orders/{id:[0-9]+}", orders.updateOrderStatus())
			r.Delete("/orders/{id:[0-9]+}", orders.deleteOrder())
		})
	})
}

func notFound(responder Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, errs.NewNotFoundError("Not found"))
	}
}
