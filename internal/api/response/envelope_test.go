package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamevault/gamevault/internal/api/response"
)

func TestNewMeta_GeneratesUUID(t *testing.T) {
	meta := response.NewMeta("")

	_, err := uuid.Parse(meta.RequestID)
	assert.NoError(t, err, "requestId should be a valid UUID")
}

func TestNewMeta_UsesProvidedRequestID(t *testing.T) {
	assert.Equal(t, "req-1", response.NewMeta("req-1").RequestID)
}

func TestTimestamp_UTCSeconds(t *testing.T) {
	local := time.Date(2021, 7, 21, 18, 55, 0, 123456789, time.FixedZone("CEST", 2*60*60))
	assert.Equal(t, "2021-07-21T16:55:00Z", response.Timestamp(local))
}

func TestSuccess_WritesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()

	response.Success(w, http.StatusCreated, map[string]int{"id": 7}, "req-1")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var env map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, map[string]any{"id": float64(7)}, env["data"])
	assert.Nil(t, env["error"])
	assert.Equal(t, "req-1", env["meta"].(map[string]any)["requestId"])
}

func TestSuccessList_IncludesPagination(t *testing.T) {
	w := httptest.NewRecorder()

	response.SuccessList(w, http.StatusOK, []string{"a", "b"}, 12, 2, 2, "req-2")

	var env struct {
		Data []string          `json:"data"`
		Meta response.ListMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, []string{"a", "b"}, env.Data)
	assert.Equal(t, 12, env.Meta.Total)
	assert.Equal(t, 2, env.Meta.Page)
	assert.Equal(t, 2, env.Meta.Limit)
	assert.Equal(t, "req-2", env.Meta.RequestID)
}

func TestErrWithDetails_WritesError(t *testing.T) {
	w := httptest.NewRecorder()
	details := []map[string]string{{"field": "email", "message": "email is required"}}

	response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", details, "req-3")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var env map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Nil(t, env["data"])

	apiErr := env["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_ERROR", apiErr["code"])
	assert.Equal(t, "Input validation failed", apiErr["message"])
	assert.Len(t, apiErr["details"], 1)
}

func TestErr_OmitsDetails(t *testing.T) {
	w := httptest.NewRecorder()

	response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", "req-4")

	var env map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	apiErr := env["error"].(map[string]any)
	_, hasDetails := apiErr["details"]
	assert.False(t, hasDetails)
}

func TestRaw_WritesBodyWithoutEnvelope(t *testing.T) {
	w := httptest.NewRecorder()

	response.Raw(w, http.StatusOK, map[string]string{"token": "abc"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"abc"}`, w.Body.String())
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	response.NoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}
