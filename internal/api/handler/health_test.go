package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Check(t *testing.T) {
	// Setup
	e := NewTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHealthHandler()

	// Act
	err := h.Check(c)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"timestamp"`)
	assert.NotContains(t, rec.Body.String(), `"checks"`)
}

func TestHealthHandler_CheckDependencies(t *testing.T) {
	ok := HealthCheck{Name: "postgres", Check: func(ctx context.Context) error { return nil }}
	ng := HealthCheck{Name: "redis", Check: func(ctx context.Context) error { return errors.New("connection refused") }}

	t.Run("すべて正常なら200", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := NewTestEcho().NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

		require.NoError(t, NewHealthHandler(ok).Check(c))

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, map[string]string{"postgres": "ok"}, resp.Checks)
	})

	t.Run("失敗があれば503", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := NewTestEcho().NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

		require.NoError(t, NewHealthHandler(ok, ng).Check(c))

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "unavailable", resp.Checks["redis"])
		assert.Equal(t, "ok", resp.Checks["postgres"])
	})
}
