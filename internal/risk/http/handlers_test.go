package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorwatch/risk-backend/internal/risk/analyze"
	"github.com/vendorwatch/risk-backend/internal/risk/domain"
	"github.com/vendorwatch/risk-backend/internal/risk/retrieval"
	"github.com/vendorwatch/risk-backend/internal/risk/search"
	"github.com/vendorwatch/risk-backend/internal/risk/service"
)

type stubCollector struct {
	docs []domain.Document
}

func (s stubCollector) Collect(context.Context, []string, domain.SearchConfig, int) search.CollectResult {
	return search.CollectResult{Docs: s.docs}
}

type stubAugmentor struct{}

func (stubAugmentor) Augment(context.Context, []domain.Document, domain.RetrievalConfig, string, map[string]string) retrieval.AugmentResult {
	return retrieval.AugmentResult{}
}

type stubRunStore struct {
	batches map[string]*domain.BatchResult
}

func (s stubRunStore) GetBatch(_ context.Context, runID string) (*domain.BatchResult, error) {
	if b, ok := s.batches[runID]; ok {
		return b, nil
	}
	return nil, domain.ErrRunNotFound
}

func newTestRouter(docs []domain.Document, runs RunStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewDetectService(stubCollector{docs: docs}, stubAugmentor{}, analyze.NewSummarizer(nil), nil)

	r := gin.New()
	New(svc, runs).Register(r)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDetectBatchEndpoint(t *testing.T) {
	docs := []domain.Document{{
		ID:          "d1",
		Title:       "Acme fire injures workers",
		Source:      "example.com",
		URL:         "https://example.com/d1",
		PublishedAt: time.Now().UTC().AddDate(0, 0, -5).Format("2006-01-02"),
		Snippet:     "A fire and explosion at the Acme plant caused one injury.",
	}}
	r := newTestRouter(docs, nil)

	w := postJSON(r, "/risk/external/detect", `{"vendors": [{"name": "Acme"}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var batch domain.BatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	assert.NotEmpty(t, batch.RunID)
	require.Len(t, batch.Results, 1)

	res := batch.Results[0]
	assert.Equal(t, "Acme", res.Vendor.Name)
	assert.NotEmpty(t, res.ReasonLines)
	assert.NotEmpty(t, res.Disclaimer)
	require.NotEmpty(t, res.Signals)
	assert.Equal(t, domain.CategorySafetyAccident, res.Signals[0].Category)
}

func TestDetectBatchEndpoint_BadRequests(t *testing.T) {
	r := newTestRouter(nil, nil)

	t.Run("malformed body", func(t *testing.T) {
		w := postJSON(r, "/risk/external/detect", `{"vendors": `)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing vendors", func(t *testing.T) {
		w := postJSON(r, "/risk/external/detect", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("blank vendor name", func(t *testing.T) {
		w := postJSON(r, "/risk/external/detect", `{"vendors": [{"name": "  "}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body.Error, "vendor")
	})
}

func TestPreviewEndpoint(t *testing.T) {
	docs := []domain.Document{{ID: "d1", Title: "Acme story", URL: "https://example.com/d1", Snippet: "Acme"}}
	r := newTestRouter(docs, nil)

	w := postJSON(r, "/risk/external/preview", `{"vendor": {"name": "Acme"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp PreviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Acme", resp.Vendor.Name)
	assert.True(t, resp.Used)
	assert.Equal(t, 1, resp.DocsCount)
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "d1", resp.Documents[0].ID)
}

func TestPreviewEndpoint_MissingName(t *testing.T) {
	r := newTestRouter(nil, nil)

	w := postJSON(r, "/risk/external/preview", `{"vendor": {"name": ""}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRunEndpoint(t *testing.T) {
	store := stubRunStore{batches: map[string]*domain.BatchResult{
		"run-1": {RunID: "run-1", Results: []domain.VendorResult{{Vendor: domain.Vendor{Name: "Acme"}, RiskLevel: domain.RiskLow}}},
	}}
	r := newTestRouter(nil, store)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/risk/runs/run-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var batch domain.BatchResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
		assert.Equal(t, "run-1", batch.RunID)
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/risk/runs/absent", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetRunEndpoint_NotMountedWithoutStore(t *testing.T) {
	r := newTestRouter(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/risk/runs/run-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
