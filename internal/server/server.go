// Package server implements hostcorsd, a demo HTTP server whose API is
// protected by a CORS middleware from package [github.com/jub0bs/hostcors].
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jub0bs/hostcors"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server serves a small API behind a CORS middleware.
type Server struct {
	cfg     Config
	logger  *slog.Logger
	cors    *hostcors.Middleware
	handler http.Handler
}

// New builds a Server in accordance with cfg.
// It returns an error if cfg.CORS is invalid.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	corsMw, err := hostcors.NewMiddleware(cfg.CORS)
	if err != nil {
		return nil, fmt.Errorf("invalid CORS configuration: %w", err)
	}
	corsMw.SetDebug(cfg.Debug)
	corsMw.SetLogger(logger)

	s := Server{
		cfg:    cfg,
		logger: logger,
		cors:   corsMw,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	// Middleware registered with Use run before routing,
	// so preflight requests reach the CORS middleware
	// even though no route accepts OPTIONS.
	r.Use(corsMw.Wrap)
	r.Get("/hello", handleHello)
	r.Get("/fail", handleFail)
	s.handler = r
	return &s, nil
}

// Handler returns s's root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// CORS returns the CORS middleware of s.
func (s *Server) CORS() *hostcors.Middleware {
	return s.cors
}

// Run listens on the configured address and serves requests until ctx is
// done, at which point it shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves requests on ln until ctx is done, at which point it shuts the
// server down gracefully. Serve always closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.logger.Info("Starting server",
		slog.String("address", ln.Addr().String()),
		slog.Bool("debug", s.cfg.Debug),
	)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not shut down server: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func handleHello(w http.ResponseWriter, _ *http.Request) {
	io.WriteString(w, "Hello, world!")
}

func handleFail(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
