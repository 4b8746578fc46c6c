package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorwatch/risk-backend/internal/risk/analyze"
	"github.com/vendorwatch/risk-backend/internal/risk/domain"
	"github.com/vendorwatch/risk-backend/internal/risk/retrieval"
	"github.com/vendorwatch/risk-backend/internal/risk/search"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeCollector returns a canned document set per vendor term and can
// simulate a slow vendor.
type fakeCollector struct {
	docsByTerm map[string][]domain.Document
	slowTerm   string
	delay      time.Duration
}

func (f *fakeCollector) Collect(ctx context.Context, terms []string, cfg domain.SearchConfig, windowDays int) search.CollectResult {
	if len(terms) == 0 {
		return search.CollectResult{}
	}
	if terms[0] == f.slowTerm {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return search.CollectResult{}
		}
	}
	return search.CollectResult{Docs: f.docsByTerm[terms[0]]}
}

type fakeAugmentor struct{}

func (fakeAugmentor) Augment(context.Context, []domain.Document, domain.RetrievalConfig, string, map[string]string) retrieval.AugmentResult {
	return retrieval.AugmentResult{}
}

type fakeStore struct {
	saved []domain.BatchResult
}

func (f *fakeStore) SaveBatch(_ context.Context, batch domain.BatchResult) error {
	f.saved = append(f.saved, batch)
	return nil
}

func severityFiveDoc(id string) domain.Document {
	return domain.Document{
		ID:          id,
		Title:       "Acme plant disaster",
		Source:      "example.com",
		URL:         "https://example.com/" + id,
		PublishedAt: testNow.AddDate(0, 0, -10).Format("2006-01-02"),
		Snippet:     "accident fatality injury explosion collapse fire at the Acme plant",
	}
}

func newTestService(col Collector, store ResultStore) *DetectService {
	s := NewDetectService(col, fakeAugmentor{}, analyze.NewSummarizer(nil), store)
	s.now = func() time.Time { return testNow }
	return s
}

func defaultRequest(vendors ...string) DetectRequest {
	req := DetectRequest{
		TimeWindowDays: 90,
		Search:         domain.DefaultSearchConfig(),
		Retrieval:      domain.RetrievalConfig{},
		Options:        domain.Options{ReturnEvidenceText: true},
	}
	for _, name := range vendors {
		req.Vendors = append(req.Vendors, domain.Vendor{Name: name})
	}
	return req
}

func TestDetectBatch_Validation(t *testing.T) {
	svc := newTestService(&fakeCollector{}, nil)

	t.Run("empty vendor list", func(t *testing.T) {
		_, err := svc.DetectBatch(context.Background(), DetectRequest{})
		assert.ErrorIs(t, err, domain.ErrVendorNameRequired)
	})

	t.Run("blank vendor name", func(t *testing.T) {
		_, err := svc.DetectBatch(context.Background(), defaultRequest("Acme", "  "))
		assert.ErrorIs(t, err, domain.ErrVendorNameRequired)
	})

	t.Run("unknown category", func(t *testing.T) {
		req := defaultRequest("Acme")
		req.Categories = []domain.Category{"CYBER_BREACH"}
		_, err := svc.DetectBatch(context.Background(), req)
		assert.Error(t, err)
	})
}

func TestDetectBatch_ScoresAndLevels(t *testing.T) {
	col := &fakeCollector{docsByTerm: map[string][]domain.Document{
		"Quiet Corp": nil,
		"Risky Corp": {severityFiveDoc("a"), severityFiveDoc("b")},
	}}
	store := &fakeStore{}
	svc := newTestService(col, store)

	batch, err := svc.DetectBatch(context.Background(), defaultRequest("Quiet Corp", "Risky Corp"))
	require.NoError(t, err)
	require.Len(t, batch.Results, 2)
	assert.NotEmpty(t, batch.RunID)

	quiet := batch.Results[0]
	assert.Equal(t, domain.RiskLow, quiet.RiskLevel)
	assert.Zero(t, quiet.TotalScore)
	assert.Zero(t, quiet.DocsCount)
	assert.Empty(t, quiet.Signals)
	require.Len(t, quiet.ReasonLines, 3)
	assert.Contains(t, quiet.ReasonLines[0], "No external documents")
	assert.Equal(t, []string{"No external risk signal detected for this vendor."}, quiet.Recommendations)

	// two severity-5 docs, 10 days old: 2 * 5 * 1.5 = 15
	risky := batch.Results[1]
	assert.Equal(t, domain.RiskHigh, risky.RiskLevel)
	assert.InDelta(t, 15.0, risky.TotalScore, 1e-9)
	assert.Equal(t, 2, risky.DocsCount)
	require.Len(t, risky.Signals, 2)
	assert.Equal(t, domain.CategorySafetyAccident, risky.Signals[0].Category)
	assert.Equal(t, 5, risky.Signals[0].Severity)
	assert.NotEmpty(t, risky.Signals[0].Evidence[0].Quote)
	assert.NotEmpty(t, risky.Recommendations)
	assert.Equal(t, []string{"example.com"}, risky.RetrievalMeta.TopSources)

	// the finished run was persisted
	require.Len(t, store.saved, 1)
	assert.Equal(t, batch.RunID, store.saved[0].RunID)
}

func TestDetectBatch_VendorTimeoutYieldsPlaceholder(t *testing.T) {
	col := &fakeCollector{
		docsByTerm: map[string][]domain.Document{
			"Fast A": {severityFiveDoc("a")},
			"Fast B": {severityFiveDoc("b")},
		},
		slowTerm: "Slow Corp",
		delay:    2 * time.Second,
	}
	svc := newTestService(col, nil).WithVendorTimeout(100 * time.Millisecond)

	batch, err := svc.DetectBatch(context.Background(), defaultRequest("Fast A", "Slow Corp", "Fast B"))
	require.NoError(t, err)
	require.Len(t, batch.Results, 3, "one slow vendor never sinks the batch")

	// input order is preserved regardless of completion order
	assert.Equal(t, "Fast A", batch.Results[0].Vendor.Name)
	assert.Equal(t, "Slow Corp", batch.Results[1].Vendor.Name)
	assert.Equal(t, "Fast B", batch.Results[2].Vendor.Name)

	slow := batch.Results[1]
	assert.Equal(t, domain.RiskLow, slow.RiskLevel)
	assert.Zero(t, slow.TotalScore)
	assert.Empty(t, slow.Signals)
	require.Len(t, slow.ReasonLines, 3)
	assert.Contains(t, slow.ReasonLines[0], "time limit")
	assert.Contains(t, slow.ReasonLines[2], "search.max_results")

	assert.NotZero(t, batch.Results[0].TotalScore)
	assert.NotZero(t, batch.Results[2].TotalScore)
}

func TestDetectBatch_SignalCap(t *testing.T) {
	var docs []domain.Document
	for i := 0; i < 15; i++ {
		docs = append(docs, severityFiveDoc(fmt.Sprintf("doc-%d", i)))
	}
	col := &fakeCollector{docsByTerm: map[string][]domain.Document{"Acme": docs}}
	svc := newTestService(col, nil)

	batch, err := svc.DetectBatch(context.Background(), defaultRequest("Acme"))
	require.NoError(t, err)

	res := batch.Results[0]
	assert.Len(t, res.Signals, maxSignals)
	assert.Equal(t, 15, res.DocsCount, "docs count reflects the full set, not the cap")
}

func TestDetectBatch_EvidenceTextSuppressed(t *testing.T) {
	col := &fakeCollector{docsByTerm: map[string][]domain.Document{"Acme": {severityFiveDoc("a")}}}
	svc := newTestService(col, nil)

	req := defaultRequest("Acme")
	req.Options.ReturnEvidenceText = false

	batch, err := svc.DetectBatch(context.Background(), req)
	require.NoError(t, err)

	sig := batch.Results[0].Signals[0]
	assert.Empty(t, sig.Evidence[0].Quote)
	assert.NotZero(t, sig.Evidence[0].Offset.End, "offsets survive even when the quote text is withheld")
	assert.NotEmpty(t, sig.Evidence[0].DocID)
}

func TestDetectBatch_CategoryRestriction(t *testing.T) {
	col := &fakeCollector{docsByTerm: map[string][]domain.Document{"Acme": {severityFiveDoc("a")}}}
	svc := newTestService(col, nil)

	req := defaultRequest("Acme")
	req.Categories = []domain.Category{domain.CategoryFinanceLitigation}

	batch, err := svc.DetectBatch(context.Background(), req)
	require.NoError(t, err)

	sig := batch.Results[0].Signals[0]
	assert.Equal(t, domain.CategoryFinanceLitigation, sig.Category)
	assert.Zero(t, sig.Severity, "safety keywords score nothing under a finance-only restriction")
}

func TestDetectBatch_RetrievalMeta(t *testing.T) {
	col := &fakeCollector{docsByTerm: map[string][]domain.Document{"Acme": {severityFiveDoc("a")}}}
	svc := newTestService(col, nil)

	req := defaultRequest("Acme")
	batch, err := svc.DetectBatch(context.Background(), req)
	require.NoError(t, err)

	meta := batch.Results[0].RetrievalMeta
	assert.True(t, meta.SearchUsed)
	assert.False(t, meta.RetrievalUsed)
	assert.Equal(t, 1, meta.DocsCount)
}

func TestPreview(t *testing.T) {
	col := &fakeCollector{docsByTerm: map[string][]domain.Document{"Acme": {severityFiveDoc("a")}}}
	svc := newTestService(col, nil)

	t.Run("requires a vendor name", func(t *testing.T) {
		_, err := svc.Preview(context.Background(), domain.Vendor{}, domain.DefaultSearchConfig(), 90)
		assert.ErrorIs(t, err, domain.ErrVendorNameRequired)
	})

	t.Run("returns raw documents", func(t *testing.T) {
		docs, err := svc.Preview(context.Background(), domain.Vendor{Name: "Acme"}, domain.DefaultSearchConfig(), 90)
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})
}

func TestRecommendations_DedupByCategory(t *testing.T) {
	signals := []domain.Signal{
		{Category: domain.CategorySafetyAccident, Severity: 3},
		{Category: domain.CategorySafetyAccident, Severity: 2},
		{Category: domain.CategoryLaborDispute, Severity: 1},
		{Category: domain.CategoryEnvComplaint, Severity: 0},
	}

	recs := recommendations(signals, 4)

	require.Len(t, recs, 2, "one hint per category with a scoring signal")
	assert.True(t, strings.Contains(recs[0], "safety"))
}
