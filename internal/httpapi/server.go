// Package httpapi exposes the interview conversation over HTTP. Routing,
// encoding, and error mapping live here; all conversation semantics live in
// internal/orchestration.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Server wraps an http.Server with the interview routes mounted.
type Server struct {
	srv *http.Server
}

// NewServer creates a server listening on port with the conversation routes
// mounted under /v1.
func NewServer(port int, h *Handler) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/interviews/{id}/start", h.StartInterview)
	mux.HandleFunc("POST /v1/interviews/{id}/turns", h.ProcessTurn)
	mux.HandleFunc("POST /v1/interviews/{id}/end", h.EndInterview)

	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start begins serving. Blocks until the server stops.
func (s *Server) Start() error {
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
