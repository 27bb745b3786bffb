// Package httpapi exposes the dispatcher over HTTP: agent discovery,
// session creation, synchronous chat and SSE chat streaming.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/hallwayhq/agenthub/dispatch"
)

// Server is the HTTP gateway over a Dispatcher.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	dispatcher *dispatch.Dispatcher
	logger     zerolog.Logger
}

// NewServer creates a gateway listening on addr. The middleware chain is
// Recovery -> Logging -> CORS.
func NewServer(addr string, d *dispatch.Dispatcher, log zerolog.Logger) *Server {
	router := mux.NewRouter()

	s := &Server{
		router:     router,
		dispatcher: d,
		logger:     log,
	}
	s.routes()

	handler := Recovery(log)(Logging(log)(CORS(router)))

	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 60 * time.Second,
		// Write timeout stays off so SSE streams are bounded by the
		// request context, not the server.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/agents", s.handleListAgents).Methods(http.MethodGet)
	s.router.HandleFunc("/agents/{agentId}", s.handleGetAgent).Methods(http.MethodGet)
	s.router.HandleFunc("/agents/{agentId}/sessions", s.handleCreateSession).Methods(http.MethodPost)
	s.router.HandleFunc("/agents/{agentId}/chat", s.handleChat).Methods(http.MethodPost)
	s.router.HandleFunc("/agents/{agentId}/chat/stream", s.handleChatStream).Methods(http.MethodPost)
	s.router.HandleFunc("/chat", s.handleQuickChat).Methods(http.MethodPost)
}

// Handler returns the full middleware-wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start blocks serving requests until Shutdown is called or the listener
// fails.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("starting gateway server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down gateway server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}
