package search

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/vendorwatch/risk-backend/internal/risk/domain"
)

// maxQueryTerms bounds how many expanded terms the provider query uses.
const maxQueryTerms = 3

// riskQueryGroup biases collection toward risk-relevant coverage across
// the five categories.
const riskQueryGroup = `(accident OR safety OR pollution OR "environmental violation" OR sanction OR fine OR lawsuit OR strike OR "unpaid wages" OR bankruptcy)`

// PrimaryProvider is the keyword-search article source.
type PrimaryProvider interface {
	Search(ctx context.Context, query string, windowDays, maxResults int, lang string) ([]domain.Document, error)
}

// SecondaryProvider is the feed-based fallback source.
type SecondaryProvider interface {
	Collect(ctx context.Context, terms []string, maxResults int) ([]domain.Document, error)
}

// DocCache caches a collected document set for a short while so repeated
// runs (batch retries, the scheduled sweep) do not re-hit the providers.
type DocCache interface {
	GetDocs(ctx context.Context, key string) ([]domain.Document, bool)
	SetDocs(ctx context.Context, key string, docs []domain.Document)
}

// CollectResult is the outcome of one collection pass.
type CollectResult struct {
	Docs []domain.Document

	// FilteredAllOut is set when the raw provider set was non-empty but
	// the term precision filter removed everything. Observability only;
	// no matches are invented.
	FilteredAllOut bool
}

// Collector runs the source fallback chain and produces a deduplicated,
// term-filtered document set. External failures never surface as errors,
// only as a smaller (possibly empty) result.
type Collector struct {
	primary   PrimaryProvider
	secondary SecondaryProvider
	cache     DocCache // optional
}

func NewCollector(primary PrimaryProvider, secondary SecondaryProvider, cache DocCache) *Collector {
	return &Collector{primary: primary, secondary: secondary, cache: cache}
}

// BuildQuery assembles the bounded provider query: up to 3 expanded terms
// quoted and OR-combined, AND-ed with the fixed risk keyword group. An
// explicit override replaces the term group but keeps the risk bias.
func BuildQuery(terms []string, override string) string {
	base := strings.TrimSpace(override)
	if base == "" {
		quoted := make([]string, 0, maxQueryTerms)
		for _, t := range terms {
			if len(quoted) >= maxQueryTerms {
				break
			}
			if t = strings.TrimSpace(t); t != "" {
				quoted = append(quoted, `"`+t+`"`)
			}
		}
		base = strings.Join(quoted, " OR ")
	} else {
		base = `"` + base + `"`
	}
	if base == "" {
		return riskQueryGroup
	}
	return fmt.Sprintf("(%s) AND %s", base, riskQueryGroup)
}

// Collect gathers documents for the expanded terms. Steps: explicit no-op
// when search is disabled or "news" is excluded; primary provider with its
// own short timeout; secondary feeds when the primary fails or comes back
// empty; URL-level dedup; term precision filter.
func (c *Collector) Collect(ctx context.Context, terms []string, cfg domain.SearchConfig, windowDays int) CollectResult {
	if !cfg.Enabled || !sourcesAllowNews(cfg.Sources) {
		return CollectResult{}
	}

	query := BuildQuery(terms, cfg.Query)
	cacheKey := collectCacheKey(query, windowDays, cfg.MaxResults)

	if c.cache != nil {
		if docs, ok := c.cache.GetDocs(ctx, cacheKey); ok {
			log.Printf("[search] cache hit key=%s docs=%d", cacheKey, len(docs))
			return c.filter(terms, docs)
		}
	}

	var raw []domain.Document
	if c.primary != nil {
		docs, err := c.primary.Search(ctx, query, windowDays, cfg.MaxResults, cfg.Lang)
		if err != nil {
			log.Printf("[search] primary provider failed, falling back to feeds: %v", err)
		} else {
			raw = docs
		}
	}

	if len(raw) == 0 && c.secondary != nil {
		docs, err := c.secondary.Collect(ctx, terms, cfg.MaxResults)
		if err != nil {
			log.Printf("[search] secondary provider failed: %v", err)
		} else {
			raw = docs
		}
	}

	raw = dedupByURL(raw)

	if c.cache != nil && len(raw) > 0 {
		c.cache.SetDocs(ctx, cacheKey, raw)
	}

	return c.filter(terms, raw)
}

// filter applies the term precision filter: a document survives when its
// title+snippet+source contains at least one expanded term,
// case-insensitively. Filtering a non-empty set down to nothing is
// reported, never papered over.
func (c *Collector) filter(terms []string, raw []domain.Document) CollectResult {
	if len(raw) == 0 {
		return CollectResult{}
	}

	lowered := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			lowered = append(lowered, t)
		}
	}
	if len(lowered) == 0 {
		return CollectResult{Docs: raw}
	}

	kept := make([]domain.Document, 0, len(raw))
	for _, d := range raw {
		hay := strings.ToLower(d.Title + " " + d.Snippet + " " + d.Source)
		for _, term := range lowered {
			if strings.Contains(hay, term) {
				kept = append(kept, d)
				break
			}
		}
	}

	if len(kept) == 0 {
		log.Printf("[search] precision filter removed all %d collected docs", len(raw))
		return CollectResult{FilteredAllOut: true}
	}
	return CollectResult{Docs: kept}
}

func sourcesAllowNews(sources []string) bool {
	if len(sources) == 0 {
		return true
	}
	for _, s := range sources {
		if strings.EqualFold(s, "news") {
			return true
		}
	}
	return false
}

func dedupByURL(docs []domain.Document) []domain.Document {
	seen := make(map[string]struct{}, len(docs))
	out := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if d.URL == "" {
			continue
		}
		if _, dup := seen[d.URL]; dup {
			continue
		}
		seen[d.URL] = struct{}{}
		out = append(out, d)
	}
	return out
}

func collectCacheKey(query string, windowDays, maxResults int) string {
	return HashID(fmt.Sprintf("%s|%d|%d", query, windowDays, maxResults))
}
