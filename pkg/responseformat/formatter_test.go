package responseformat

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type sample struct {
	Crop  string  `json:"crop"`
	Yield float64 `json:"avg_yield"`
}

func TestWriteResponseJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/best-crop-by-state", nil)

	require.NoError(t, NewFormatter().WriteResponse(rec, req, http.StatusOK, []sample{{"Corn", 510}}))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, ContentTypeJSON, rec.Header().Get("Content-Type"))
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.JSONEq(t, `[{"crop":"Corn","avg_yield":510}]`, rec.Body.String())
}

func TestWriteResponseEmptySlice(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	require.NoError(t, NewFormatter().WriteResponse(rec, req, http.StatusOK, []sample{}))
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestWriteResponseMsgPack(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/best-crop-by-state?format=msgpack", nil)

	require.NoError(t, NewFormatter().WriteResponse(rec, req, http.StatusOK, []sample{{"Rice", 310}}))
	require.Equal(t, ContentTypeMsgPack, rec.Header().Get("Content-Type"))

	var decoded []map[string]any
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	require.Equal(t, "Rice", decoded[0]["crop"])
	require.EqualValues(t, 310, decoded[0]["avg_yield"])
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/top-co2-countries?limit=abc", nil)

	require.NoError(t, NewFormatter().WriteError(rec, req, http.StatusBadRequest, "limit must be a positive integer"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "limit must be a positive integer", body.Error)
}

func TestEncodeFailureWritesNothing(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/best-climate-resilient-crops", nil)

	err := NewFormatter().WriteResponse(rec, req, http.StatusOK, []sample{{"Rice", math.NaN()}})
	require.ErrorIs(t, err, ErrEncoding)
	require.Empty(t, rec.Body.String())
	require.Empty(t, rec.Header().Get("Content-Type"))

	// the same writer can still carry an error response
	require.NoError(t, NewFormatter().WriteError(rec, req, http.StatusInternalServerError, "failed to encode response"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"failed to encode response"}`, rec.Body.String())
}
