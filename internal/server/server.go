// Package server wires the chat endpoint to the orchestrators.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/rmarques/searchagent/internal/agent"
	"github.com/rmarques/searchagent/internal/model"
	"github.com/rmarques/searchagent/internal/sse"
)

// Server exposes the chat API over HTTP.
type Server struct {
	automatic agent.Orchestrator
	manual    agent.Orchestrator
	validate  *validator.Validate
	logger    *slog.Logger
}

// New builds a server around the two orchestration paths.
func New(automatic, manual agent.Orchestrator, logger *slog.Logger) *Server {
	return &Server{
		automatic: automatic,
		manual:    manual,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Post("/chat", s.handleChat)

	return r
}

// handleChat validates the request, opens the event stream and drains
// the selected orchestrator onto it. Once the stream is open every
// failure becomes an error event; the end frame is always sent so the
// client can reliably detect completion.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	orchestrator := s.automatic
	if req.Manual {
		orchestrator = s.manual
	}

	stream, err := sse.Open(w, s.logger)
	if err != nil {
		s.logger.Error("cannot open event stream", "error", err)
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	defer stream.Close()

	// The request context cancels in-flight model and tool calls when
	// the client disconnects.
	for event, err := range orchestrator.Run(r.Context(), req.Query) {
		if err != nil {
			s.logger.Error("orchestration failed", "manual", req.Manual, "error", err)
			if emitErr := stream.Emit(model.Error(err.Error())); emitErr != nil {
				s.logger.Warn("client gone before error event", "error", emitErr)
			}
			return
		}
		if err := stream.Emit(event); err != nil {
			s.logger.Warn("client gone, dropping stream", "error", err)
			return
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// cors mirrors the permissive policy of the original deployment.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
