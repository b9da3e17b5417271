package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gamevault/gamevault/internal/api/response"
)

const maxBodyBytes = 1 << 20

// decodeBody decodes a JSON request body into v and writes a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, requestID string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return false
	}
	return true
}

// parseID reads the {id} URL parameter and writes a 400 if it is not a
// positive integer.
func parseID(w http.ResponseWriter, r *http.Request, requestID string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return 0, false
	}
	return id, true
}

// parsePositiveQuery reads an optional positive integer query parameter.
func parsePositiveQuery(w http.ResponseWriter, r *http.Request, name string, requestID string) (int64, bool, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, false, true
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 1 {
		response.Err(w, http.StatusBadRequest, "INVALID_PARAM", name+" must be a positive integer", requestID)
		return 0, false, false
	}
	return n, true, true
}
