package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/warna720/TDP003/services"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	portfolio   *services.Portfolio
	startupTime time.Time
}

func newHealthHandler(portfolio *services.Portfolio, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		portfolio:   portfolio,
		startupTime: startupTime,
	}
}

// getHealth reports "ok" while the catalog loads and "degraded" otherwise.
// The server itself is up either way, so the status code stays 200.
func (h healthHandler) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:        "ok",
			UptimeSeconds: int64(time.Since(h.startupTime).Seconds()),
			Source:        h.portfolio.Source(),
		}

		count, ok := h.portfolio.Probe(r.Context())
		if !ok {
			h.logger.Warn().Str("source", response.Source).Msg("health check could not load the catalog")
			response.Status = "degraded"
		}
		response.Projects = count

		h.responder.WriteJSON(w, response)
	}
}
