package infra

import (
	"context"
	"net/http"
	"time"
)

// HTTPServer wraps http.Server with start and graceful-shutdown helpers for
// the API process.
type HTTPServer struct {
	server *http.Server
}

// NewHTTPServer builds the server for the API routes. Write timeouts come
// from config because a generation request stays open for the full upstream
// model round trip; header limits stay tight since request bodies carry
// URLs, never image bytes.
func NewHTTPServer(cfg *Config, handler http.Handler) *HTTPServer {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		MaxHeaderBytes:    1 << 20,
	}

	return &HTTPServer{server: srv}
}

// Start runs the HTTP server in the current goroutine.
func (s *HTTPServer) Start() error {
	if s.server == nil {
		return nil
	}
	return s.server.ListenAndServe()
}

// Shutdown stops accepting new connections and waits for in-flight requests
// within the context deadline.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
