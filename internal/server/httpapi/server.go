// Package httpapi is the REST front end: it translates routes into the
// service operations and maps every outcome onto the uniform result shape.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chanvault/chanvault/internal/logging"
	"github.com/chanvault/chanvault/internal/server/services"
)

type HTTPServer struct {
	address  string
	logger   logging.Logger
	users    *services.UserService
	contents *services.ContentService
}

func NewHTTPServer(addr string, l logging.Logger, us *services.UserService, cs *services.ContentService) *HTTPServer {
	return &HTTPServer{
		address:  addr,
		logger:   l.With("module", "http_server"),
		users:    us,
		contents: cs,
	}
}

// Router builds the chi mux with all routes attached. Exposed separately so
// tests can drive it through httptest without binding a socket.
func (s *HTTPServer) Router() chi.Router {
	r := chi.NewRouter()

	r.Route("/files", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Get("/{id}", s.handleGetContent)
		r.Post("/edit/{id}", s.handleEditContent)
		r.Post("/delete/{id}", s.handleDeleteContent)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/me", s.handleMe)
		r.Get("/uploads/{id}", s.handleUserUploads)
		r.Get("/{id}", s.handleGetUser)
		r.Post("/register", s.handleRegister)
		r.Post("/delete/{id}", s.handleDeleteUser)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "HTTP server listening", "addr", s.address)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
