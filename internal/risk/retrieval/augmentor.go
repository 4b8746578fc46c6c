package retrieval

import (
	"context"
	"log"

	"github.com/vendorwatch/risk-backend/internal/risk/domain"
)

// AugmentResult carries the retrieved passages plus whether retrieval was
// considered used for metadata purposes.
type AugmentResult struct {
	Hits []domain.RetrievalHit
	Used bool
}

// Augmentor runs the optional semantic re-retrieval step over collected
// documents.
type Augmentor struct {
	index SemanticIndex
}

func NewAugmentor(index SemanticIndex) *Augmentor {
	if index == nil {
		index = NullIndex{}
	}
	return &Augmentor{index: index}
}

// Augment indexes the documents and retrieves the top-K most relevant
// chunks for the query. Disabled retrieval produces no hits and is marked
// unused. When retrieval is enabled but the index is not ready, retrieval
// is still marked used (the caller asked for it) and the first K raw text
// items pass through unmodified: degrade gracefully, never fail.
//
// tags (run ID, vendor) label every upserted chunk and constrain the
// query, isolating concurrent runs inside the shared collection.
func (a *Augmentor) Augment(ctx context.Context, docs []domain.Document, cfg domain.RetrievalConfig, query string, tags map[string]string) AugmentResult {
	if !cfg.Enabled {
		return AugmentResult{}
	}

	items := DocItems(docs)

	topK := cfg.TopK
	if topK <= 0 {
		topK = 6
	}

	if !a.index.Ready(ctx) {
		return AugmentResult{Hits: passthrough(items, topK), Used: true}
	}

	chunks := SplitChunks(items, cfg.ChunkSize)
	for i := range chunks {
		for k, v := range tags {
			chunks[i].Metadata[k] = v
		}
	}

	if _, err := a.index.Upsert(ctx, chunks); err != nil {
		log.Printf("[retrieval] upsert failed, passing raw docs through: %v", err)
		return AugmentResult{Hits: passthrough(items, topK), Used: true}
	}

	hits, err := a.index.Query(ctx, query, topK, tags)
	if err != nil || len(hits) == 0 {
		if err != nil {
			log.Printf("[retrieval] query failed, passing raw docs through: %v", err)
		}
		return AugmentResult{Hits: passthrough(items, topK), Used: true}
	}

	out := make([]domain.RetrievalHit, 0, len(hits))
	for _, h := range hits {
		out = append(out, domain.RetrievalHit{Text: h.Text, Metadata: h.Metadata})
	}
	return AugmentResult{Hits: out, Used: true}
}

func passthrough(items []Chunk, k int) []domain.RetrievalHit {
	if len(items) > k {
		items = items[:k]
	}
	hits := make([]domain.RetrievalHit, 0, len(items))
	for _, it := range items {
		hits = append(hits, domain.RetrievalHit{Text: it.Text, Metadata: it.Metadata})
	}
	return hits
}
