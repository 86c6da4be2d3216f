package api

import (
	"time"

	"github.com/warna720/TDP003/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(portfolio *services.Portfolio, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		projectHandler:   newProjectHandler(portfolio),
		searchHandler:    newSearchHandler(portfolio),
		techniqueHandler: newTechniqueHandler(portfolio),
		healthHandler:    newHealthHandler(portfolio, startupTime),
	}
}
