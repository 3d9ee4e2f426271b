package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Route("/api", func(r chi.Router) {
		r.Get("/version", h.getVersion)

		r.Route("/sync", func(r chi.Router) {
			r.Get("/status", h.syncStatus)
			r.Post("/enable", h.enableSync)
			r.Post("/disable", h.disableSync)
			r.Post("/trigger", h.triggerSync)
		})

		// static segments above win over the entity type parameter
		r.Route("/{entityType}", func(r chi.Router) {
			r.Get("/", h.listEntities)
			r.Post("/", h.createEntity)
			r.Get("/{id}", h.getEntity)
			r.Patch("/{id}", h.updateEntity)
			r.Delete("/{id}", h.deleteEntity)
		})
	})

	return router
}
