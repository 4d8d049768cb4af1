// Package httpapi exposes the analysis pipeline over HTTP. One route
// does the work; the rest are the operational surface: health probe
// and prometheus metrics.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/tokensentry/tokensentry/internal/chain"
	"github.com/tokensentry/tokensentry/internal/config"
	"github.com/tokensentry/tokensentry/internal/engine"
	"github.com/tokensentry/tokensentry/internal/report"
	"github.com/tokensentry/tokensentry/internal/store"
)

// Analyzer runs one full token analysis. Implemented by engine.Engine.
type Analyzer interface {
	Analyze(ctx context.Context, address string) (*engine.Analysis, error)
}

// Quota meters analyses per API key. Implemented by store.Store; nil
// disables enforcement.
type Quota interface {
	Consume(ctx context.Context, apiKey string) error
}

// Server is the HTTP harness around the engine.
type Server struct {
	analyzer Analyzer
	quota    Quota
	cfg      config.ServerConfig
	router   *mux.Router
	metrics  *metrics
}

// New builds the server and its routes. quota may be nil.
func New(analyzer Analyzer, quota Quota, cfg config.ServerConfig) *Server {
	s := &Server{
		analyzer: analyzer,
		quota:    quota,
		cfg:      cfg,
		router:   mux.NewRouter(),
		metrics:  newMetrics(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.requestLogger)
	s.router.HandleFunc("/v1/analyze/{address}", s.handleAnalyze).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the context is canceled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Listen,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.cfg.AnalyzeTimeout.Std() + 5*time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("listen", s.cfg.Listen).Msg("http server started")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// statusRecorder captures the status code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		s.metrics.requestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	if s.quota != nil {
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			writeError(w, http.StatusUnauthorized, "missing X-API-Key header")
			return
		}
		if err := s.quota.Consume(r.Context(), apiKey); err != nil {
			if errors.Is(err, store.ErrExhausted) {
				writeError(w, http.StatusPaymentRequired, "access grant exhausted")
				return
			}
			log.Error().Err(err).Msg("quota check failed")
			writeError(w, http.StatusInternalServerError, "quota check failed")
			return
		}
	}

	ctx := r.Context()
	if s.cfg.AnalyzeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.AnalyzeTimeout.Std())
		defer cancel()
	}

	start := time.Now()
	analysis, err := s.analyzer.Analyze(ctx, address)
	if err != nil {
		if errors.Is(err, chain.ErrInvalidAddress) {
			writeError(w, http.StatusBadRequest, "not a recognizable token address")
			return
		}
		log.Error().Err(err).Str("address", address).Msg("analysis failed")
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	s.metrics.analyzeDuration.Observe(time.Since(start).Seconds())
	s.metrics.analysesByRisk.WithLabelValues(string(analysis.RiskLevel)).Inc()
	if analysis.Degraded {
		s.metrics.degradedTotal.Inc()
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(report.Render(analysis)))
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("response encoding failed")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
