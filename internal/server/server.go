// Package server exposes the flood data clients over a small JSON API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/waterscope/floodwatch/pkg/stn"
)

// STNService is the subset of the STN client the API serves.
type STNService interface {
	GetAllData(ctx context.Context, dt stn.DataType, epsg int) (*stn.Dataset, error)
	GetFilteredData(ctx context.Context, dt stn.DataType, params map[string]string, epsg int) (*stn.Dataset, error)
	DataDictionary(ctx context.Context, dt stn.DataType) ([]stn.DictionaryEntry, error)
}

// Server is the HTTP API server.
type Server struct {
	stn    STNService
	router *chi.Mux
	srv    *http.Server
}

// New builds a Server with middleware and routes configured.
func New(svc STNService) *Server {
	s := &Server{
		stn:    svc,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logRequests)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/stn/{dataType}", s.handleSTNData)
		r.Get("/stn/{dataType}/dictionary", s.handleSTNDictionary)
	})
}

// Start listens on addr until the server is shut down.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("server: listening", zap.String("addr", addr))
	return s.srv.ListenAndServe()
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
