package api

import (
	"github.com/warna720/TDP003/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler   projectHandler
	searchHandler    searchHandler
	techniqueHandler techniqueHandler
	healthHandler    healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"sortby"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// ProjectCollection is a list of projects with its length
type ProjectCollection struct {
	Projects []models.Project `json:"projects"`
	Total    int              `json:"total"`
}

// SearchResponse is the result of a search together with every technique,
// so a client can render the technique filter next to the results
type SearchResponse struct {
	Projects   []models.Project `json:"projects"`
	Matches    int              `json:"matches"`
	Techniques []string         `json:"techniques"`
}

// TechniqueStatsResponse maps each technique to the projects using it
type TechniqueStatsResponse struct {
	Techniques map[string][]models.TechniqueUsage `json:"techniques"`
}

// HealthResponse reports liveness and the catalog the server reads
type HealthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Source        string `json:"source"`
	Projects      int    `json:"projects"`
}
