package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"nwsclient/models"
	"nwsclient/providers"
)

// StationService is the part of *providers.Client the server needs.
type StationService interface {
	ListStations(ctx context.Context, opts providers.ListOptions) (*providers.StationPage, error)
	StationDetail(ctx context.Context, id string) (*models.Station, error)
}

// Server is the JSON front-end over a StationService. It implements
// http.Handler.
type Server struct {
	stations StationService
	logger   *slog.Logger
	timeout  time.Duration
	router   *mux.Router
}

// New wires the routes. timeout bounds every upstream call made on behalf
// of a request.
func New(stations StationService, logger *slog.Logger, timeout time.Duration) *Server {
	s := &Server{
		stations: stations,
		logger:   logger,
		timeout:  timeout,
		router:   mux.NewRouter(),
	}

	r := s.router
	r.Use(s.requestID)
	r.Use(s.requestLogger)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/stations", s.listHandler).Methods(http.MethodGet)
	api.HandleFunc("/stations/{id}", s.detailHandler).Methods(http.MethodGet)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := providers.ListOptions{Cursor: q.Get("cursor")}
	for _, v := range q["state"] {
		for _, code := range strings.Split(v, ",") {
			if code = strings.TrimSpace(code); code != "" {
				opts.States = append(opts.States, strings.ToUpper(code))
			}
		}
	}
	if l := q.Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit <= 0 {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
				Error:   "invalid limit",
				Details: l,
			})
			return
		}
		opts.Limit = limit
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	page, err := s.stations.ListStations(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.StationList{
		Stations:   page.Stations,
		NextCursor: page.NextCursor,
	})
}

func (s *Server) detailHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.ToUpper(mux.Vars(r)["id"])

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	st, err := s.stations.StationDetail(ctx, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, st)
}

// writeError maps client errors onto gateway status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	var (
		upstream  *providers.UpstreamError
		transport *providers.TransportError
		decode    *providers.DecodeError
	)
	switch {
	case errors.Is(err, providers.ErrNotFound):
		status, msg = http.StatusNotFound, "station not found"
	case errors.As(err, &upstream):
		status, msg = http.StatusBadGateway, "upstream error"
	case errors.As(err, &transport):
		status, msg = http.StatusGatewayTimeout, "upstream unreachable"
	case errors.As(err, &decode):
		status, msg = http.StatusBadGateway, "unexpected upstream response"
	}

	s.logger.WarnContext(r.Context(), "request failed",
		"request_id", w.Header().Get(requestIDHeader),
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)
	writeJSON(w, status, models.ErrorResponse{
		Error:   msg,
		Details: err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
