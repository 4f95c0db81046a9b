package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorRender(t *testing.T) {
	apiErr := ErrInsufficientData("gdp regression needs at least 2 complete pairs")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/analysis", nil)

	NewErrorHandler(nil).HandleError(w, r, apiErr)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "INSUFFICIENT_DATA", resp.Error.ErrorCode)
	assert.Contains(t, resp.Error.Details, "complete pairs")
}

func TestHandleErrorWrapsPlainErrors(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/overview", nil)

	NewErrorHandler(nil).HandleError(w, r, fmt.Errorf("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", resp.Error.ErrorCode)
}

func TestHandleErrorPreservesWrappedAPIError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/overview", nil)

	wrapped := fmt.Errorf("load overview: %w", ErrDataset(fmt.Errorf("open data/gdp.csv: no such file")))
	NewErrorHandler(nil).HandleError(w, r, wrapped)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleErrorNilIsNoop(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	NewErrorHandler(nil).HandleError(w, r, nil)
	assert.Empty(t, w.Body.String())
}
