// Package api - Thin HTTP layer over the pricing engine
// The API is only responsible for input ingestion, engine invocation, and
// output serialization. It never performs price logic.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"workorder-pricing/core/breakdown"
	"workorder-pricing/internal/errors"
	"workorder-pricing/internal/logging"
)

// Server is the API server
type Server struct {
	calculator *breakdown.Calculator
	router     chi.Router
	version    string
}

// NewServer creates a new API server around a calculator
func NewServer(calculator *breakdown.Calculator, version string) *Server {
	s := &Server{
		calculator: calculator,
		version:    version,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Post("/v1/breakdown", s.handleBreakdown)
	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleBreakdown handles POST /v1/breakdown
func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())
	if requestID == "" {
		requestID = uuid.NewString()
	}

	var req BreakdownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, requestID, errors.Wrap(errors.TypeInput, "invalid request body", err))
		return
	}
	if err := validateRequest(&req); err != nil {
		s.writeError(w, requestID, err)
		return
	}

	result, err := s.calculator.Compute(r.Context(), &req.Request)
	if err != nil {
		s.writeError(w, requestID, err)
		return
	}

	s.writeJSON(w, http.StatusOK, &BreakdownResponse{
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Breakdown: result,
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) writeError(w http.ResponseWriter, requestID string, err error) {
	code := errors.TypeInternal
	message := err.Error()
	if e, ok := err.(*errors.Error); ok {
		code = e.Type
	}

	status := http.StatusInternalServerError
	switch code {
	case errors.TypeInput:
		status = http.StatusBadRequest
	case errors.TypeNotFound:
		status = http.StatusNotFound
	case errors.TypeCalculation, errors.TypeNetwork:
		status = http.StatusBadGateway
	}

	logging.Warn("request failed",
		zap.String("request_id", requestID),
		zap.String("code", string(code)),
		zap.Error(err),
	)

	s.writeJSON(w, status, &ErrorResponse{
		RequestID: requestID,
		Code:      string(code),
		Message:   message,
	})
}

// requestLogger logs one line per request
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
