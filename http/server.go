package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/fwojciec/sitecrawl"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MaxRequestBodySize is the limit on the size of a registration request body.
const MaxRequestBodySize = 16 << 10

// DefaultAddr is the address the server listens on when none is given.
const DefaultAddr = "127.0.0.1:8080"

// Server routes REST calls to a sitecrawl.DomainService.
type Server struct {
	router  *chi.Mux
	domains sitecrawl.DomainService
	metrics http.Handler
	logger  *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger used for internal errors.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler exposes h at GET /metrics.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewServer creates a Server backed by domains.
func NewServer(domains sitecrawl.DomainService, opts ...ServerOption) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		domains: domains,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(middleware.Recoverer)
	s.router.Route("/crawler/domains", func(r chi.Router) {
		r.Post("/", s.handleRegister)
		r.Get("/{domain}/urls", s.handleFindURLs)
		r.Get("/{domain}/urls/count", s.handleCountURLs)
	})
	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleRegister accepts a JSON string naming the domain to crawl and
// responds with the registered domain as plain text.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var raw string
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBodySize)).Decode(&raw); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		s.writeError(w, r, sitecrawl.Errorf(sitecrawl.EINVALID, "request body must be a JSON string"))
		return
	}

	key, err := sitecrawl.ParseDomainKey(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	key, err = s.domains.Register(r.Context(), key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(key.Domain()))
}

func (s *Server) handleFindURLs(w http.ResponseWriter, r *http.Request) {
	key, err := domainParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.domains.FindURLs(r.Context(), key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list.URLs == nil {
		list.URLs = []string{}
	}

	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCountURLs(w http.ResponseWriter, r *http.Request) {
	key, err := domainParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	count, err := s.domains.CountURLs(r.Context(), key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, count)
}

func domainParam(r *http.Request) (sitecrawl.DomainKey, error) {
	domain, err := url.PathUnescape(chi.URLParam(r, "domain"))
	if err != nil {
		return sitecrawl.DomainKey{}, sitecrawl.Errorf(sitecrawl.EINVALID, "invalid domain in path")
	}
	return sitecrawl.ParseDomainKey(domain)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError writes err as a JSON error response with the status matching its
// code. Internal errors are logged and their message hidden.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := sitecrawl.ErrorCode(err), sitecrawl.ErrorMessage(err)
	if code == sitecrawl.EINTERNAL {
		s.logger.Error("http error", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	s.writeJSON(w, errorStatus(code), errorResponse{Error: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

var codes = map[string]int{
	sitecrawl.ECONFLICT: http.StatusConflict,
	sitecrawl.EINVALID:  http.StatusBadRequest,
	sitecrawl.ENOTFOUND: http.StatusNotFound,
	sitecrawl.EINTERNAL: http.StatusInternalServerError,
}

// errorStatus returns the HTTP status code for an application error code.
func errorStatus(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}
