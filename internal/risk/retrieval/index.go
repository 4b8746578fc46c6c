package retrieval

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

// Chunk is one indexable/retrievable text item with its metadata.
type Chunk struct {
	Text     string
	Metadata map[string]string
}

// SemanticIndex is the optional semantic-retrieval capability. A null
// implementation is selected at construction when no index is configured;
// callers only ever check Ready, never configuration.
type SemanticIndex interface {
	// Ready reports whether the index is configured and reachable.
	Ready(ctx context.Context) bool

	// Upsert indexes chunks. Returns how many were stored.
	Upsert(ctx context.Context, chunks []Chunk) (int, error)

	// Query returns the top-k chunks for a query, restricted to chunks
	// whose metadata matches every key/value in where.
	Query(ctx context.Context, query string, k int, where map[string]string) ([]Chunk, error)
}

// NullIndex is the fallback when no semantic index is configured.
type NullIndex struct{}

func (NullIndex) Ready(context.Context) bool { return false }

func (NullIndex) Upsert(context.Context, []Chunk) (int, error) { return 0, nil }

func (NullIndex) Query(context.Context, string, int, map[string]string) ([]Chunk, error) {
	return nil, nil
}

const (
	chunkClassName = "RiskChunk"
	readyTimeout   = 2 * time.Second
)

// metadata keys promoted to Weaviate properties. runId/vendor tag every
// chunk so concurrent vendor tasks can share one collection: queries
// filter on both, so one run never retrieves another run's chunks.
var chunkMetaKeys = []string{"doc_id", "title", "source", "url", "published_at", "run_id", "vendor"}

// propNames maps snake_case metadata keys to the GraphQL property names.
var propNames = map[string]string{
	"doc_id":       "docId",
	"title":        "title",
	"source":       "source",
	"url":          "url",
	"published_at": "publishedAt",
	"run_id":       "runId",
	"vendor":       "vendor",
}

// WeaviateIndex implements SemanticIndex on a single shared Weaviate
// collection.
type WeaviateIndex struct {
	client *weaviate.Client
}

// NewIndex selects the index implementation at construction time: a
// Weaviate-backed index when a URL is configured, the null index
// otherwise.
func NewIndex(host, scheme string) SemanticIndex {
	if host == "" {
		return NullIndex{}
	}
	if scheme == "" {
		scheme = "http"
	}
	client, err := weaviate.NewClient(weaviate.Config{Host: host, Scheme: scheme})
	if err != nil {
		log.Printf("[retrieval] weaviate client init failed, retrieval degraded: %v", err)
		return NullIndex{}
	}
	idx := &WeaviateIndex{client: client}
	idx.ensureSchema(context.Background())
	return idx
}

// Ready checks reachability with a tight timeout.
func (w *WeaviateIndex) Ready(ctx context.Context) bool {
	cctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	ok, err := w.client.Misc().ReadyChecker().Do(cctx)
	return err == nil && ok
}

// ensureSchema creates the chunk class if missing. Best effort: a failure
// here just means the index reports not-ready later.
func (w *WeaviateIndex) ensureSchema(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := w.client.Schema().ClassExistenceChecker().WithClassName(chunkClassName).Do(cctx)
	if err != nil || exists {
		return
	}

	props := []*models.Property{{Name: "text", DataType: []string{"text"}}}
	for _, key := range chunkMetaKeys {
		props = append(props, &models.Property{Name: propNames[key], DataType: []string{"text"}})
	}
	err = w.client.Schema().ClassCreator().WithClass(&models.Class{
		Class:      chunkClassName,
		Properties: props,
	}).Do(cctx)
	if err != nil {
		log.Printf("[retrieval] schema create failed: %v", err)
	}
}

// Upsert batches chunks into the shared collection.
func (w *WeaviateIndex) Upsert(ctx context.Context, chunks []Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	objects := make([]*models.Object, 0, len(chunks))
	for _, c := range chunks {
		props := map[string]interface{}{"text": c.Text}
		for _, key := range chunkMetaKeys {
			if v, ok := c.Metadata[key]; ok {
				props[propNames[key]] = v
			}
		}
		objects = append(objects, &models.Object{Class: chunkClassName, Properties: props})
	}

	resp, err := w.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("weaviate upsert: %w", err)
	}
	return len(resp), nil
}

// Query runs a NearText search filtered by the where metadata.
func (w *WeaviateIndex) Query(ctx context.Context, query string, k int, where map[string]string) ([]Chunk, error) {
	if k <= 0 {
		k = 6
	}

	fields := []graphql.Field{{Name: "text"}}
	for _, key := range chunkMetaKeys {
		fields = append(fields, graphql.Field{Name: propNames[key]})
	}

	nearText := w.client.GraphQL().NearTextArgBuilder().WithConcepts([]string{query})

	builder := w.client.GraphQL().Get().
		WithClassName(chunkClassName).
		WithFields(fields...).
		WithNearText(nearText).
		WithLimit(k)

	if len(where) > 0 {
		operands := make([]*filters.WhereBuilder, 0, len(where))
		for _, key := range chunkMetaKeys {
			if v, ok := where[key]; ok {
				operands = append(operands, filters.Where().
					WithPath([]string{propNames[key]}).
					WithOperator(filters.Equal).
					WithValueString(v))
			}
		}
		builder = builder.WithWhere(filters.Where().WithOperator(filters.And).WithOperands(operands))
	}

	result, err := builder.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate query: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("weaviate query: %s", result.Errors[0].Message)
	}

	return parseChunks(result.Data), nil
}

func parseChunks(data map[string]models.JSONObject) []Chunk {
	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return nil
	}
	rows, ok := get[chunkClassName].([]interface{})
	if !ok {
		return nil
	}

	chunks := make([]Chunk, 0, len(rows))
	for _, row := range rows {
		obj, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		c := Chunk{Metadata: make(map[string]string)}
		if text, ok := obj["text"].(string); ok {
			c.Text = text
		}
		for _, key := range chunkMetaKeys {
			if v, ok := obj[propNames[key]].(string); ok && v != "" {
				c.Metadata[key] = v
			}
		}
		chunks = append(chunks, c)
	}
	return chunks
}
