package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes sets up the public, read-only routes
func setupRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/health", handlers.healthHandler.getHealth())

	// Project Handler endpoints
	r.Get("/projects", handlers.projectHandler.getAllProjects())
	r.Post("/projects", handlers.projectHandler.searchProjects())
	r.Get("/project/random", handlers.projectHandler.getRandomProject())
	r.Get("/project/{projectID}", handlers.projectHandler.getProject())

	// Technique Handler endpoints
	r.Get("/techniques", handlers.techniqueHandler.getTechniqueStats())

	// Search Handler endpoints
	r.Get("/search", handlers.searchHandler.search())
	r.Post("/search", handlers.searchHandler.search())
}
