package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const (
	sseEndpoint     = "/sse"
	messageEndpoint = "/message"
	shutdownTimeout = 5 * time.Second
)

type healthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// newSSEServer builds the SSE transport; httpServer, when set, is shut down
// together with the open SSE sessions
func (s *Server) newSSEServer(httpServer *http.Server) *server.SSEServer {
	opts := []server.SSEOption{
		server.WithBaseURL("http://" + s.config.Address()),
		server.WithSSEEndpoint(sseEndpoint),
		server.WithMessageEndpoint(messageEndpoint),
	}
	if httpServer != nil {
		opts = append(opts, server.WithHTTPServer(httpServer))
	}
	return server.NewSSEServer(s.mcpServer, opts...)
}

// Handler returns the HTTP routes served in server mode
func (s *Server) Handler() http.Handler {
	return s.routes(s.newSSEServer(nil))
}

func (s *Server) routes(sse *server.SSEServer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(healthResponse{
			OK:      true,
			Service: s.config.ServerName,
			Version: s.config.Version,
		})
	})

	r.Handle(sseEndpoint, sse.SSEHandler())
	r.Handle(messageEndpoint, sse.MessageHandler())

	return r
}

// requestLogger logs every request once it completes
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug("http request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// runServerMode serves MCP over SSE until ctx is cancelled
func (s *Server) runServerMode(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Address(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	sse := s.newSSEServer(httpServer)
	httpServer.Handler = s.routes(sse)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting PDF analyser in server mode",
			zap.String("addr", httpServer.Addr),
			zap.String("sse", sseEndpoint),
			zap.String("base_dir", s.config.BaseDirectory))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down HTTP server")
		if err := sse.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("failed to serve http: %w", err)
		}
		return nil
	}
}
