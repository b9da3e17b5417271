package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"sigs.k8s.io/yaml"

	"github.com/gamevault/gamevault/internal/api/middleware"
	"github.com/gamevault/gamevault/internal/api/response"
)

// OpenAPIHandler serves the embedded OpenAPI document as JSON, stamped with
// the running server version.
type OpenAPIHandler struct {
	render func() ([]byte, error)
}

// NewOpenAPIHandler creates a handler that renders yamlSpec on first request.
// A non-empty version replaces info.version in the served document.
func NewOpenAPIHandler(yamlSpec []byte, version string) *OpenAPIHandler {
	return &OpenAPIHandler{
		render: sync.OnceValues(func() ([]byte, error) {
			return renderOpenAPI(yamlSpec, version)
		}),
	}
}

func renderOpenAPI(yamlSpec []byte, version string) ([]byte, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(yamlSpec, &doc); err != nil {
		return nil, fmt.Errorf("parsing OpenAPI spec: %w", err)
	}

	if version != "" {
		info, ok := doc["info"].(map[string]any)
		if !ok {
			info = map[string]any{}
			doc["info"] = info
		}
		info["version"] = version
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding OpenAPI spec: %w", err)
	}
	return out, nil
}

// ServeHTTP writes the rendered document.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	spec, err := h.render()
	if err != nil {
		slog.Error("failed to render OpenAPI spec", "error", err)
		requestID := middleware.GetRequestID(r.Context())
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to convert OpenAPI spec", requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(spec); err != nil {
		slog.Error("failed to write OpenAPI spec response", "error", err)
	}
}
