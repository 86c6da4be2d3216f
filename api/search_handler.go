package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/warna720/TDP003/errs"
	"github.com/warna720/TDP003/query"
	"github.com/warna720/TDP003/services"
)

// Request parameters of the search form.
const (
	paramSearchStr    = "searchstr"
	paramSortBy       = "sortby"
	paramSortOrder    = "sortorder"
	paramTechniques   = "techniques"
	paramSearchFields = "searchfields"
)

type searchHandler struct {
	responder Responder
	logger    zerolog.Logger
	portfolio *services.Portfolio
}

func newSearchHandler(portfolio *services.Portfolio) searchHandler {
	logger := log.With().Str("handlerName", "searchHandler").Logger()

	return searchHandler{
		responder: NewResponder(logger),
		logger:    logger,
		portfolio: portfolio,
	}
}

// searchOptions reads the search form. Parameters may come from the query
// string or a form body. No searchfields means every field.
func searchOptions(r *http.Request) (query.Options, error) {
	if err := r.ParseForm(); err != nil {
		return query.Options{}, errs.NewBadRequestError("malformed form")
	}

	opts := query.Options{
		SortBy:     r.Form.Get(paramSortBy),
		SortOrder:  r.Form.Get(paramSortOrder),
		Techniques: r.Form[paramTechniques],
		SearchText: r.Form.Get(paramSearchStr),
	}
	if fields := r.Form[paramSearchFields]; len(fields) > 0 {
		opts.SearchFields = fields
	}
	return opts, nil
}

// search runs a full search
// @Summary Search projects
// @Tags Search
// @Accept x-www-form-urlencoded
// @Produce json
// @Param searchstr formData string false "Text to search for, first word only"
// @Param sortby formData string false "Field to sort on" default(start_date)
// @Param sortorder formData string false "asc, anything else is descending" default(desc)
// @Param techniques formData []string false "Keep projects with any of these techniques"
// @Param searchfields formData []string false "Fields to search, all when omitted"
// @Success 200 {object} SearchResponse "Matching projects"
// @Failure 400 {object} ErrorResponse "Bad Request - Unknown sort field"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Catalog unavailable"
// @Router /search [get]
// @Router /search [post]
func (h searchHandler) search() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := searchOptions(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projects, err := h.portfolio.Search(r.Context(), opts)
		if err != nil {
			h.responder.WriteError(w, toApiErr(err))
			return
		}

		techniques, err := h.portfolio.ListTechniques(r.Context())
		if err != nil {
			h.responder.WriteError(w, toApiErr(err))
			return
		}

		h.responder.WriteJSON(w, SearchResponse{
			Projects:   projects,
			Matches:    len(projects),
			Techniques: techniques,
		})
	}
}
