// Package server exposes the HTTP surface: health, resume parsing behind the
// auth gate, and cache management endpoints.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RiikenJobstack/jobstackParser/internal/auth"
	"github.com/RiikenJobstack/jobstackParser/internal/cache"
	"github.com/RiikenJobstack/jobstackParser/internal/repository"
)

// ResumeParser is the pipeline the handler invokes once the gate passes.
type ResumeParser interface {
	Parse(ctx context.Context, filename string, content []byte) json.RawMessage
}

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Deps wires the handler's collaborators.
type Deps struct {
	Pipeline       ResumeParser
	Users          repository.UserRepository
	Tokens         TokenVerifier
	Cache          *cache.Layered
	AllowedOrigins []string
	MaxUploadBytes int64
	Logger         *slog.Logger
}

type handler struct {
	deps Deps
	log  *slog.Logger
}

// NewHandler builds the chi router.
func NewHandler(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = 10 << 20
	}
	h := &handler{deps: deps, log: deps.Logger}

	r := chi.NewRouter()
	r.Use(requestLogger(deps.Logger))

	r.Get("/", h.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(originGate(deps.AllowedOrigins))
		r.Post("/parse-resume", h.handleParseResume)
		r.Get("/cache-stats", h.handleCacheStats)
		r.Post("/cache-clear", h.handleCacheClear)
		for _, route := range []string{"/parse-resume", "/cache-stats", "/cache-clear"} {
			r.Options(route, h.handlePreflight)
		}
	})

	return r
}

// errorBody is the machine-readable error envelope.
type errorBody struct {
	Error   string `json:"error"`
	Status  int    `json:"status"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, errorBody{Error: msg, Status: status, Details: details})
}
