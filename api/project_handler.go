package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/warna720/TDP003/errs"
	"github.com/warna720/TDP003/query"
	"github.com/warna720/TDP003/services"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	portfolio *services.Portfolio
}

func newProjectHandler(portfolio *services.Portfolio) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		portfolio: portfolio,
	}
}

// getAllProjects lists every project in catalog order
// @Summary Get all projects
// @Tags Projects
// @Produce json
// @Success 200 {object} ProjectCollection "List of projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Catalog unavailable"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, ok := h.portfolio.Load(r.Context())
		if !ok {
			h.responder.WriteError(w, toApiErr(errs.CatalogUnavailable(h.portfolio.Source())))
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{
			Projects: projects,
			Total:    len(projects),
		})
	}
}

// searchProjects filters the list on free text only, newest first
// @Summary Search the project list
// @Tags Projects
// @Accept x-www-form-urlencoded
// @Produce json
// @Param searchstr formData string false "Text to search for"
// @Success 200 {object} ProjectCollection "Matching projects"
// @Failure 400 {object} ErrorResponse "Bad Request - Malformed form"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Catalog unavailable"
// @Router /projects [post]
func (h projectHandler) searchProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed form"))
			return
		}

		opts := query.DefaultOptions()
		opts.SearchText = r.Form.Get(paramSearchStr)

		projects, err := h.portfolio.Search(r.Context(), opts)
		if err != nil {
			h.responder.WriteError(w, toApiErr(err))
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{
			Projects: projects,
			Total:    len(projects),
		})
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} models.Project "Project details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Catalog unavailable"
// @Router /project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectIDStr := chi.URLParam(r, "projectID")
		if projectIDStr == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing projectID"))
			return
		}

		projectID, err := strconv.Atoi(projectIDStr)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		project, err := h.portfolio.Project(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, toApiErr(err))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// getRandomProject returns one project picked at random
// @Summary Get a random project
// @Tags Projects
// @Produce json
// @Success 200 {object} models.Project "A random project"
// @Failure 404 {object} ErrorResponse "Not Found - Catalog is empty"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Catalog unavailable"
// @Router /project/random [get]
func (h projectHandler) getRandomProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.portfolio.RandomProject(r.Context())
		if err != nil {
			h.responder.WriteError(w, toApiErr(err))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}
