package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/richinex/discoverylens/model"
)

// Analyzer runs the analysis pipeline for one discovery.
type Analyzer interface {
	Analyze(ctx context.Context, discoveryID string, d model.DiscoveryRequest) (model.ProblemAnalysis, error)
}

// HMWGenerator turns an analysis into "How Might We" statements.
type HMWGenerator interface {
	GenerateHMW(ctx context.Context, d model.DiscoveryRequest, a model.ProblemAnalysis) ([]model.HMWStatement, error)
}

// Services reports which external providers are configured.
type Services struct {
	Search     bool `json:"search"`
	Completion bool `json:"completion"`
}

// Config carries the collaborators and limits of the HTTP API.
type Config struct {
	Analyzer        Analyzer
	HMW             HMWGenerator
	Services        Services
	AllowedOrigins  []string
	RateLimitMax    int
	RateLimitWindow time.Duration
	Logger          *zap.Logger
}

type handler struct {
	analyzer Analyzer
	hmw      HMWGenerator
	services Services
	logger   *zap.Logger
	now      func() time.Time
}

type errorResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error"`
	Message string       `json:"message,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

type analyzeResponse struct {
	Success bool                  `json:"success"`
	Data    model.ProblemAnalysis `json:"data"`
}

type hmwResponse struct {
	Success       bool                 `json:"success"`
	HMWStatements []model.HMWStatement `json:"hmwStatements"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Services  *Services `json:"services,omitempty"`
}

// NewHandler builds the routed, middleware-wrapped API handler.
func NewHandler(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handler{
		analyzer: cfg.Analyzer,
		hmw:      cfg.HMW,
		services: cfg.Services,
		logger:   logger,
		now:      time.Now,
	}
	return h.routes(cfg)
}

func (h *handler) routes(cfg Config) http.Handler {
	limited := func(fn http.HandlerFunc) http.Handler { return fn }
	if cfg.RateLimitMax > 0 && cfg.RateLimitWindow > 0 {
		limiter := newWindowLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
		limited = func(fn http.HandlerFunc) http.Handler { return limiter.middleware(fn) }
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.health)
	mux.Handle("GET /api/analysis/health", limited(h.analysisHealth))
	mux.Handle("POST /api/analysis/analyze", limited(h.analyze))
	mux.Handle("POST /api/analysis/hmw", limited(h.generateHMW))

	var wrapped http.Handler = mux
	wrapped = requestLogger(h.logger)(wrapped)
	wrapped = cors(cfg.AllowedOrigins)(wrapped)
	wrapped = recoverer(h.logger)(wrapped)
	return wrapped
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	services := h.services
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Timestamp: h.now().UTC(), Services: &services})
}

func (h *handler) analysisHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Timestamp: h.now().UTC()})
}

func (h *handler) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeValidation(w, err)
		return
	}
	discoveryID, discovery, err := req.validate()
	if err != nil {
		h.writeValidation(w, err)
		return
	}

	h.logger.Info("analyzing discovery", zap.String("discovery_id", discoveryID))
	result, err := h.analyzer.Analyze(r.Context(), discoveryID, discovery)
	if err != nil {
		h.logger.Error("analysis error", zap.String("discovery_id", discoveryID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Failed to analyze discovery",
			Message: err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Success: true, Data: result})
}

func (h *handler) generateHMW(w http.ResponseWriter, r *http.Request) {
	var req hmwRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeValidation(w, err)
		return
	}
	if req.Discovery == nil || req.Analysis == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Discovery and analysis data are required"})
		return
	}

	h.logger.Info("generating HMW statements", zap.String("discovery_id", req.Analysis.DiscoveryID))
	statements, err := h.hmw.GenerateHMW(r.Context(), *req.Discovery, *req.Analysis)
	if err != nil {
		h.logger.Error("HMW generation error", zap.String("discovery_id", req.Analysis.DiscoveryID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Failed to generate HMW statements",
			Message: err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, hmwResponse{Success: true, HMWStatements: statements})
}

func (h *handler) writeValidation(w http.ResponseWriter, err error) {
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		vErr = &ValidationError{Details: []FieldError{{Field: "body", Message: err.Error()}}}
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:   "Invalid request data",
		Details: vErr.Details,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
