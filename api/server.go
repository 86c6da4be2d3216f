package api

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/warna720/TDP003/config"
	"github.com/warna720/TDP003/services"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c config.Config, portfolio *services.Portfolio) Server {
	// Capture startup time
	startupTime := time.Now()

	router := newRouter(portfolio,
		withAcceptedOrigins(c.AcceptedOrigins),
		withStartupTime(startupTime),
	)

	server := &http.Server{
		Addr:         c.Address(),
		Handler:      router,
		ReadTimeout:  c.ReadTimeout(),  // Timeout for reading the entire request
		WriteTimeout: c.WriteTimeout(), // Timeout for writing the response
		IdleTimeout:  c.IdleTimeout(),  // Timeout for idle connections
	}

	return Server{server, startupTime}
}

type router struct {
	acceptedOrigins []string
	startupTime     time.Time
	requestLog      io.Writer
}

func withAcceptedOrigins(origins []string) func(*router) {
	return func(r *router) {
		r.acceptedOrigins = origins
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withRequestLog(w io.Writer) func(*router) {
	return func(r *router) {
		r.requestLog = w
	}
}

func newRouter(portfolio *services.Portfolio, opts ...func(*router)) *chi.Mux {
	router := router{
		startupTime: time.Now(),
		requestLog:  os.Stderr,
	}
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(RequestID)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(CORSCheckMiddleware(router.acceptedOrigins))
	chiRouter.Use(corsMiddleware(router.acceptedOrigins))
	chiRouter.Use(coloredHTTPLogging(router.requestLog))

	handlers := initializeHandlers(portfolio, router.startupTime)
	setupRoutes(chiRouter, handlers)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
