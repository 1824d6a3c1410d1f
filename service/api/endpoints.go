package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/guregu/null/v6"
	"github.com/rs/zerolog"

	"github.com/jamshidfarook/Geenie-Risk-Engine/data/loader"
	"github.com/jamshidfarook/Geenie-Risk-Engine/service/config"
	c "github.com/jamshidfarook/Geenie-Risk-Engine/service/core"
	sm "github.com/jamshidfarook/Geenie-Risk-Engine/service/models"
)

const DefaultMaxBodyBytes = 32 << 20

type handler struct {
	sc           *c.ServiceContext
	maxBodyBytes int64
}

// NewRouter builds the routes: ping, settings resources and the analysis endpoint
func NewRouter(sc *c.ServiceContext, maxBodyBytes int64) http.Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	h := &handler{sc: sc, maxBodyBytes: maxBodyBytes}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(sc.Logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.ping)
		r.Get("/settings", h.settings)
		r.Post("/analyze", h.analyze)
	})

	return r
}

// GetHttpServer wraps the router in a server configured from cfg. Request
// contexts derive from sc.Context, cancelling it aborts running analyses.
func GetHttpServer(sc *c.ServiceContext, cfg *config.Config) *http.Server {
	return &http.Server{
		Addr:           cfg.Server.Addr,
		Handler:        NewRouter(sc, cfg.Server.MaxBodyBytes),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
		BaseContext: func(net.Listener) context.Context {
			return sc.Context
		},
	}
}

func (h *handler) ping(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

func (h *handler) settings(w http.ResponseWriter, r *http.Request) {
	res := sm.GetSimulationSettingsResources()
	h.writeJSON(w, http.StatusOK, sm.GetServiceResponseOk(&res))
}

// analyze expects the CSV as the request body and settings as query parameters
func (h *handler) analyze(w http.ResponseWriter, r *http.Request) {
	settings, err := ParseAnalysisQuery(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, sm.GetServiceResponseError(sm.KindBadRequest, http.StatusBadRequest, err))
		return
	}

	table, err := loader.ReadCSV(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, sm.GetServiceResponseError(sm.KindBadRequest, http.StatusBadRequest, err))
		return
	}

	res, err := h.sc.RunAnalysis(r.Context(), table, settings)
	if err != nil {
		kind, status := classifyError(err)
		h.writeJSON(w, status, sm.GetServiceResponseError(kind, status, err))
		return
	}

	h.writeJSON(w, http.StatusOK, sm.GetServiceResponseOk(res))
}

// ParseAnalysisQuery reads start, end, columns, window, threshold, simulations,
// horizons and seed from the query string. Absent values stay zero.
func ParseAnalysisQuery(r *http.Request) (sm.AnalysisRequestSettings, error) {
	q := r.URL.Query()
	var s sm.AnalysisRequestSettings
	var err error

	if s.StartDate, err = parseQueryDate(q.Get("start")); err != nil {
		return s, fmt.Errorf("start: %w", err)
	}
	if s.EndDate, err = parseQueryDate(q.Get("end")); err != nil {
		return s, fmt.Errorf("end: %w", err)
	}
	if v := q.Get("columns"); v != "" {
		s.PriceColumns = splitList(v)
	}
	if v := q.Get("window"); v != "" {
		if s.RollingWindow, err = strconv.Atoi(v); err != nil {
			return s, fmt.Errorf("window: %w", err)
		}
	}
	if v := q.Get("threshold"); v != "" {
		if s.StressThreshold, err = strconv.ParseFloat(v, 64); err != nil {
			return s, fmt.Errorf("threshold: %w", err)
		}
	}
	if v := q.Get("simulations"); v != "" {
		if s.NumSimulations, err = strconv.Atoi(v); err != nil {
			return s, fmt.Errorf("simulations: %w", err)
		}
	}
	if v := q.Get("horizons"); v != "" {
		for _, part := range splitList(v) {
			days, err := strconv.Atoi(part)
			if err != nil {
				return s, fmt.Errorf("horizons: %w", err)
			}
			s.Horizons = append(s.Horizons, days)
		}
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return s, fmt.Errorf("seed: %w", err)
		}
		s.Seed = null.IntFrom(seed)
	}

	return s, nil
}

// classifyError maps the core sentinels to an error kind and status
func classifyError(err error) (sm.ErrorKind, int) {
	switch {
	case errors.Is(err, c.ErrNoDateColumn):
		return sm.KindNoDateColumn, http.StatusUnprocessableEntity
	case errors.Is(err, c.ErrNoPriceColumn):
		return sm.KindNoPriceColumn, http.StatusUnprocessableEntity
	case errors.Is(err, c.ErrInsufficientData):
		return sm.KindInsufficientData, http.StatusUnprocessableEntity
	case errors.Is(err, c.ErrEmptyWindow):
		return sm.KindEmptyWindow, http.StatusUnprocessableEntity
	case errors.Is(err, c.ErrInvalidParameter):
		return sm.KindInvalidParameter, http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return sm.KindCancelled, http.StatusServiceUnavailable
	default:
		return sm.KindInternal, http.StatusInternalServerError
	}
}

func parseQueryDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(time.DateOnly, v, time.UTC)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		h.sc.Logger.Error().Err(err).Int("status", status).Msg("error encoding response")
		status = http.StatusInternalServerError
		data, _ = json.Marshal(sm.GetServiceResponseError(sm.KindInternal, status, errors.New("error encoding response")))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		h.sc.Logger.Warn().Err(err).Msg("error writing response")
	}
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Info().
				Str("requestId", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Msg("handled request")
		})
	}
}
