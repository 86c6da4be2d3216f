package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/warna720/TDP003/services"
)

type techniqueHandler struct {
	responder Responder
	logger    zerolog.Logger
	portfolio *services.Portfolio
}

func newTechniqueHandler(portfolio *services.Portfolio) techniqueHandler {
	logger := log.With().Str("handlerName", "techniqueHandler").Logger()

	return techniqueHandler{
		responder: NewResponder(logger),
		logger:    logger,
		portfolio: portfolio,
	}
}

// getTechniqueStats lists, for every technique, the projects using it
// @Summary Get technique stats
// @Tags Techniques
// @Produce json
// @Success 200 {object} TechniqueStatsResponse "Projects per technique"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Catalog unavailable"
// @Router /techniques [get]
func (h techniqueHandler) getTechniqueStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.portfolio.TechniqueStats(r.Context())
		if err != nil {
			h.responder.WriteError(w, toApiErr(err))
			return
		}

		h.responder.WriteJSON(w, TechniqueStatsResponse{Techniques: stats})
	}
}
