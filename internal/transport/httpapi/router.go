// Package httpapi exposes the drawing service and tool registry over JSON/HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/piexl/CAD-MCP/internal/session"
	"github.com/piexl/CAD-MCP/internal/tool"
)

const maxBodyBytes = 1 << 20

// service is the part of dispatch.Service the HTTP API calls directly.
type service interface {
	InterpretAndDispatch(ctx context.Context, raw string) (string, error)
	Connect(ctx context.Context) (string, error)
	Close(ctx context.Context) (string, error)
	Status() session.Status
}

// Handler serves the /v1 endpoints.
type Handler struct {
	svc      service
	registry *tool.Registry
	logger   *slog.Logger
}

// NewRouter creates the chi router with all routes.
func NewRouter(svc service, reg *tool.Registry, logger *slog.Logger) *chi.Mux {
	if svc == nil || reg == nil {
		panic("service and registry are required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handler{svc: svc, registry: reg, logger: logger.With("component", "http")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/commands", h.ProcessCommand) // POST /v1/commands
		r.Get("/tools", h.ListTools)          // GET /v1/tools
		r.Post("/tools/{name}", h.CallTool)   // POST /v1/tools/{name}
		r.Get("/status", h.Status)            // GET /v1/status
		r.Post("/connect", h.Connect)         // POST /v1/connect
		r.Post("/close", h.Close)             // POST /v1/close
	})
	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
	}
}
