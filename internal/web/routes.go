package web

import (
	"github.com/go-chi/chi/v5"

	"facegate/internal/gallery"
	"facegate/internal/matcher"
	"facegate/internal/web/handlers"
)

func (s *Server) setupRoutes(m *matcher.Service, store gallery.Store) {
	registerHandler := handlers.NewRegisterHandler(m)
	recognizeHandler := handlers.NewRecognizeHandler(m)
	galleryHandler := handlers.NewGalleryHandler(store)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", registerHandler.Register)
		r.Post("/recognize", recognizeHandler.Recognize)
		r.Get("/gallery", galleryHandler.List)
	})

	// Original frontend paths, kept as aliases.
	s.router.Post("/register", registerHandler.Register)
	s.router.Post("/recognize", recognizeHandler.Recognize)
}
