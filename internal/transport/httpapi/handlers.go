package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/piexl/CAD-MCP/internal/tool"
)

type commandRequest struct {
	Command string `json:"command"`
}

type resultResponse struct {
	Result string `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type toolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// ProcessCommand handles POST /v1/commands.
func (h *Handler) ProcessCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "InvalidArguments"})
		return
	}
	if req.Command == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "command is required", Kind: "InvalidArguments"})
		return
	}
	out, err := h.svc.InterpretAndDispatch(r.Context(), req.Command)
	h.respond(w, out, err)
}

// ListTools handles GET /v1/tools.
func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	tools := h.registry.List()
	out := make([]toolInfo, 0, len(tools))
	for _, t := range tools {
		out = append(out, toolInfo{Name: t.Name(), Description: t.Description(), InputSchema: t.Schema()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": out})
}

// CallTool handles POST /v1/tools/{name}. The body is the tool's argument object.
func (h *Handler) CallTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	args := map[string]any{}
	if err := decodeBody(w, r, &args); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "InvalidArguments"})
		return
	}
	out, err := h.registry.Execute(r.Context(), name, args)
	h.respond(w, out, err)
}

// Status handles GET /v1/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// Connect handles POST /v1/connect.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Connect(r.Context())
	h.respond(w, out, err)
}

// Close handles POST /v1/close.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Close(r.Context())
	h.respond(w, out, err)
}

func (h *Handler) respond(w http.ResponseWriter, out string, err error) {
	if err != nil {
		kind := tool.ErrorKind(err)
		writeJSON(w, StatusFor(kind), errorResponse{Error: err.Error(), Kind: kind})
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Result: out})
}

// StatusFor maps an error kind to its HTTP status code.
func StatusFor(kind string) int {
	switch kind {
	case "AmbiguousCommand", "UnsupportedShape", "MissingField", "InvalidArguments":
		return http.StatusBadRequest
	case "UnknownTool":
		return http.StatusNotFound
	case "NotConnected":
		return http.StatusConflict
	case "BackendError":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return err
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
