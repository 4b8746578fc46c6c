package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/vendorwatch/risk-backend/internal/risk/analyze"
	"github.com/vendorwatch/risk-backend/internal/risk/domain"
	"github.com/vendorwatch/risk-backend/internal/risk/retrieval"
	"github.com/vendorwatch/risk-backend/internal/risk/scoring"
	"github.com/vendorwatch/risk-backend/internal/risk/search"
)

const (
	// maxSignals caps the evidence list per vendor.
	maxSignals = 10

	// maxTopSources caps the source list in retrieval metadata.
	maxTopSources = 3

	// defaultVendorTimeout bounds one vendor's full pipeline.
	defaultVendorTimeout = 20 * time.Second

	// batchConcurrency bounds concurrent vendor pipelines. External
	// collection is the bottleneck, so this stays small.
	batchConcurrency = 2

	disclaimer = "Automated screening of public sources. Findings are indicative, not verified facts; review the cited evidence before acting."
)

// Collector produces the external document set for a vendor.
type Collector interface {
	Collect(ctx context.Context, terms []string, cfg domain.SearchConfig, windowDays int) search.CollectResult
}

// Augmentor runs the optional semantic re-retrieval step.
type Augmentor interface {
	Augment(ctx context.Context, docs []domain.Document, cfg domain.RetrievalConfig, query string, tags map[string]string) retrieval.AugmentResult
}

// ResultStore persists finished batch runs. Optional; persistence
// failures never fail a batch.
type ResultStore interface {
	SaveBatch(ctx context.Context, batch domain.BatchResult) error
}

// DetectRequest is the shared configuration for one batch run.
type DetectRequest struct {
	Vendors        []domain.Vendor
	TimeWindowDays int
	Categories     []domain.Category
	Search         domain.SearchConfig
	Retrieval      domain.RetrievalConfig
	Options        domain.Options
}

// DetectService runs the per-vendor risk-detection pipeline and its batch
// orchestration.
type DetectService struct {
	collector  Collector
	augmentor  Augmentor
	summarizer *analyze.Summarizer
	results    ResultStore

	vendorTimeout time.Duration
	now           func() time.Time
}

func NewDetectService(collector Collector, augmentor Augmentor, summarizer *analyze.Summarizer, results ResultStore) *DetectService {
	return &DetectService{
		collector:     collector,
		augmentor:     augmentor,
		summarizer:    summarizer,
		results:       results,
		vendorTimeout: defaultVendorTimeout,
		now:           time.Now,
	}
}

// WithVendorTimeout overrides the per-vendor deadline (config / tests).
func (s *DetectService) WithVendorTimeout(d time.Duration) *DetectService {
	if d > 0 {
		s.vendorTimeout = d
	}
	return s
}

// Validate rejects malformed input before any work starts. A vendor
// without a name is the one request-level validation failure.
func (r DetectRequest) Validate() error {
	if len(r.Vendors) == 0 {
		return fmt.Errorf("%w: empty vendor list", domain.ErrVendorNameRequired)
	}
	for i, v := range r.Vendors {
		if strings.TrimSpace(v.Name) == "" {
			return fmt.Errorf("%w: vendor %d", domain.ErrVendorNameRequired, i)
		}
	}
	for _, c := range r.Categories {
		if !domain.IsValidCategory(c) {
			return fmt.Errorf("unknown category %q", c)
		}
	}
	return nil
}

// DetectBatch runs the pipeline for every vendor under bounded
// concurrency with a hard per-vendor deadline. A vendor that exceeds its
// deadline yields a LOW placeholder; the batch itself never fails because
// of one vendor. Results come back in input order regardless of
// completion order.
func (s *DetectService) DetectBatch(ctx context.Context, req DetectRequest) (domain.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return domain.BatchResult{}, err
	}

	runID := uuid.New().String()
	sem := semaphore.NewWeighted(batchConcurrency)
	results := make([]domain.VendorResult, len(req.Vendors))

	var wg sync.WaitGroup
	for i, vendor := range req.Vendors {
		wg.Add(1)
		go func(i int, vendor domain.Vendor) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				results[i] = s.timeoutResult(vendor)
				return
			}
			defer sem.Release(1)

			results[i] = s.runOne(ctx, runID, vendor, req)
		}(i, vendor)
	}
	wg.Wait()

	batch := domain.BatchResult{RunID: runID, Results: results}

	if s.results != nil {
		if err := s.results.SaveBatch(ctx, batch); err != nil {
			log.Printf("[detect] run persist failed run_id=%s err=%v", runID, err)
		}
	}
	return batch, nil
}

// runOne wraps one vendor's pipeline in the hard per-vendor deadline. On
// expiry the in-flight work is abandoned (its context is cancelled, so
// outstanding calls fail fast) and a placeholder result substitutes; no
// partial signals are retained.
func (s *DetectService) runOne(ctx context.Context, runID string, vendor domain.Vendor, req DetectRequest) domain.VendorResult {
	vctx, cancel := context.WithTimeout(ctx, s.vendorTimeout)
	defer cancel()

	done := make(chan domain.VendorResult, 1)
	go func() {
		done <- s.detectOne(vctx, runID, vendor, req)
	}()

	select {
	case res := <-done:
		if vctx.Err() != nil {
			return s.timeoutResult(vendor)
		}
		return res
	case <-vctx.Done():
		log.Printf("[detect] vendor timed out name=%s limit=%s", vendor.Name, s.vendorTimeout)
		return s.timeoutResult(vendor)
	}
}

// detectOne is the sequential per-vendor pipeline: expand terms, collect,
// optionally re-retrieve, then classify/extract/summarize each candidate
// passage, weight by recency, and aggregate.
func (s *DetectService) detectOne(ctx context.Context, runID string, vendor domain.Vendor, req DetectRequest) domain.VendorResult {
	terms := search.ExpandVendorTerms(vendor.Name)

	col := s.collector.Collect(ctx, terms, req.Search, req.TimeWindowDays)
	docs := col.Docs

	// Risk-negative coverage first, so the signal cap keeps the items
	// that matter.
	negative, nonNegative := analyze.SplitBySentiment(docs)
	ordered := append(negative, nonNegative...)

	query := strings.TrimSpace(req.Search.Query)
	if query == "" {
		query = vendor.Name
	}
	tags := map[string]string{"run_id": runID, "vendor": vendor.Name}
	aug := s.augmentor.Augment(ctx, ordered, req.Retrieval, query, tags)

	passages := aug.Hits
	if len(passages) == 0 {
		passages = docPassages(ordered)
	}

	signals := s.buildSignals(ctx, passages, docsByID(docs), req)
	total := scoring.TotalScore(signals)

	return domain.VendorResult{
		Vendor:          vendor,
		RiskLevel:       scoring.LevelFromTotal(total),
		TotalScore:      total,
		DocsCount:       len(docs),
		ReasonLines:     reasonLines(vendor.Name, docs, col.FilteredAllOut),
		Signals:         signals,
		Recommendations: recommendations(signals, len(docs)),
		Disclaimer:      disclaimer,
		RetrievalMeta: domain.RetrievalMeta{
			SearchUsed:    req.Search.Enabled,
			RetrievalUsed: aug.Used,
			DocsCount:     len(docs),
			TopSources:    topSources(docs),
		},
	}
}

// buildSignals classifies each retrieved passage, extracts a grounded
// quote, summarizes, and applies the recency weight. Capped at maxSignals.
func (s *DetectService) buildSignals(ctx context.Context, passages []domain.RetrievalHit, docs map[string]domain.Document, req DetectRequest) []domain.Signal {
	allowed := req.Categories
	if len(allowed) == 0 {
		allowed = domain.AllCategories
	}

	now := s.now()
	signals := make([]domain.Signal, 0, maxSignals)
	for _, p := range passages {
		if len(signals) >= maxSignals {
			break
		}
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}

		meta := p.Metadata
		title := meta["title"]
		publishedAt := meta["published_at"]

		cls := analyze.Classify(title+" "+text, allowed)
		quote, start, end := analyze.ExtractQuote(text, cls.Tags, analyze.DefaultQuoteLen)
		sum := s.summarizer.Summarize(ctx, text, cls.Category, cls.Severity, req.Options.StrictGrounding)

		weight := scoring.RecencyWeight(publishedAt, now)

		evidence := domain.EvidenceItem{
			DocID:  meta["doc_id"],
			Source: meta["source"],
			URL:    meta["url"],
			Quote:  quote,
			Offset: domain.Offset{Start: start, End: end},
		}
		if !req.Options.ReturnEvidenceText {
			evidence.Quote = ""
		}
		if d, ok := docs[meta["doc_id"]]; ok && title == "" {
			title = d.Title
		}

		signals = append(signals, domain.Signal{
			Category:    cls.Category,
			Severity:    cls.Severity,
			Score:       float64(cls.Severity) * weight,
			Title:       title,
			Summary:     sum.Summary,
			Why:         sum.Why,
			PublishedAt: publishedAt,
			Evidence:    []domain.EvidenceItem{evidence},
			Tags:        cls.Tags,
			IsEstimated: sum.IsEstimated,
		})
	}
	return signals
}

// timeoutResult is the placeholder substituted when a vendor's pipeline
// exceeds its deadline.
func (s *DetectService) timeoutResult(vendor domain.Vendor) domain.VendorResult {
	return domain.VendorResult{
		Vendor:     vendor,
		RiskLevel:  domain.RiskLow,
		TotalScore: 0,
		ReasonLines: []string{
			fmt.Sprintf("External risk detection for %s was stopped by the per-vendor time limit.", vendor.Name),
			fmt.Sprintf("Per-vendor limit: %s.", s.vendorTimeout),
			"Retry with a smaller search.max_results or time_window_days.",
		},
		Signals:         []domain.Signal{},
		Recommendations: []string{"Retry this vendor with narrower search parameters."},
		Disclaimer:      disclaimer,
	}
}

func reasonLines(vendorName string, docs []domain.Document, filteredAllOut bool) []string {
	if len(docs) == 0 {
		second := "The search providers may have failed or returned nothing relevant."
		if filteredAllOut {
			second = "Documents were collected but none mentioned the vendor; the precision filter removed them."
		}
		return []string{
			fmt.Sprintf("No external documents were collected for %s.", vendorName),
			second,
			"Use the preview operation to inspect raw collection first.",
		}
	}

	sources := topSources(docs)
	sourceLine := "Top sources: n/a."
	if len(sources) > 0 {
		sourceLine = "Top sources: " + strings.Join(sources, ", ") + "."
	}
	return []string{
		fmt.Sprintf("Collected %d external documents for %s.", len(docs), vendorName),
		sourceLine,
		fmt.Sprintf("Up to %d classified signals are provided as evidence.", maxSignals),
	}
}

// categoryHints are the follow-up recommendations per detected category.
var categoryHints = map[domain.Category]string{
	domain.CategorySafetyAccident:    "Request the vendor's recent safety incident reports and corrective actions.",
	domain.CategoryLegalSanction:     "Verify regulatory sanctions against the official registries before escalating.",
	domain.CategoryLaborDispute:      "Check the current status of labor disputes and any settlement terms.",
	domain.CategoryEnvComplaint:      "Review environmental permits and any open complaints with local authorities.",
	domain.CategoryFinanceLitigation: "Reassess credit exposure and review pending litigation dockets.",
}

func recommendations(signals []domain.Signal, docsCount int) []string {
	if docsCount == 0 {
		return []string{"No external risk signal detected for this vendor."}
	}

	var out []string
	seen := make(map[domain.Category]struct{})
	for _, sig := range signals {
		if sig.Severity == 0 {
			continue
		}
		if _, dup := seen[sig.Category]; dup {
			continue
		}
		seen[sig.Category] = struct{}{}
		if hint, ok := categoryHints[sig.Category]; ok {
			out = append(out, hint)
		}
	}
	if len(out) == 0 {
		out = append(out, "Collected coverage shows no category-level risk concentration; no action required.")
	}
	return out
}

func topSources(docs []domain.Document) []string {
	seen := make(map[string]struct{})
	for _, d := range docs {
		if d.Source != "" {
			seen[d.Source] = struct{}{}
		}
	}
	sources := make([]string, 0, len(seen))
	for s := range seen {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	if len(sources) > maxTopSources {
		sources = sources[:maxTopSources]
	}
	return sources
}

// docPassages converts documents into classification passages when
// retrieval produced no hits (disabled, or nothing indexable).
func docPassages(docs []domain.Document) []domain.RetrievalHit {
	hits := make([]domain.RetrievalHit, 0, len(docs))
	for _, d := range docs {
		text := strings.TrimSpace(d.Text)
		if text == "" {
			text = strings.TrimSpace(d.Snippet)
		}
		if text == "" {
			continue
		}
		hits = append(hits, domain.RetrievalHit{
			Text: text,
			Metadata: map[string]string{
				"doc_id":       d.ID,
				"title":        d.Title,
				"source":       d.Source,
				"url":          d.URL,
				"published_at": d.PublishedAt,
			},
		})
	}
	return hits
}

func docsByID(docs []domain.Document) map[string]domain.Document {
	m := make(map[string]domain.Document, len(docs))
	for _, d := range docs {
		m[d.ID] = d
	}
	return m
}

// Preview collects documents for a single vendor without classification.
// Inspection only; short timeouts are applied by the HTTP layer.
func (s *DetectService) Preview(ctx context.Context, vendor domain.Vendor, cfg domain.SearchConfig, windowDays int) ([]domain.Document, error) {
	if strings.TrimSpace(vendor.Name) == "" {
		return nil, domain.ErrVendorNameRequired
	}
	terms := search.ExpandVendorTerms(vendor.Name)
	col := s.collector.Collect(ctx, terms, cfg, windowDays)
	return col.Docs, nil
}
