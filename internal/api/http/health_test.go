package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorwatch/risk-backend/internal/risk/retrieval"
)

func TestHealthCheck_AllOptionalDepsDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewHealthHandler("risk-backend", "1.0.0", nil, nil, retrieval.NullIndex{})
	h.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "risk-backend", resp.Service)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, "disabled", resp.DB)
	assert.Equal(t, "disabled", resp.Cache)
	assert.Equal(t, "disabled", resp.Index)
}

func TestHealthCheck_HealthzAlias(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewHealthHandler("risk-backend", "1.0.0", nil, nil, retrieval.NullIndex{})
	h.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
