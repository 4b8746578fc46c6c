package retrieval

import (
	"strings"

	"github.com/vendorwatch/risk-backend/internal/risk/domain"
)

const defaultChunkSize = 800

// DocItems converts documents to chunk-ready text items, one per
// document. Documents with neither full text nor a snippet are skipped;
// they carry nothing to retrieve. Metadata preserves provenance so hits
// stay traceable to their source document.
func DocItems(docs []domain.Document) []Chunk {
	items := make([]Chunk, 0, len(docs))
	for _, d := range docs {
		text := strings.TrimSpace(d.Text)
		if text == "" {
			text = strings.TrimSpace(d.Snippet)
		}
		if text == "" {
			continue
		}
		items = append(items, Chunk{
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
	return items
}

// SplitChunks cuts items into chunkSize-character pieces, preferring to
// break at a space near the boundary. Metadata is copied onto every piece.
func SplitChunks(items []Chunk, chunkSize int) []Chunk {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	var out []Chunk
	for _, item := range items {
		text := item.Text
		for len(text) > 0 {
			cut := chunkSize
			if cut >= len(text) {
				cut = len(text)
			} else if idx := strings.LastIndexByte(text[:cut], ' '); idx > chunkSize/2 {
				cut = idx
			}
			piece := strings.TrimSpace(text[:cut])
			text = strings.TrimSpace(text[cut:])
			if piece == "" {
				continue
			}
			out = append(out, Chunk{Text: piece, Metadata: copyMeta(item.Metadata)})
		}
	}
	return out
}

func copyMeta(meta map[string]string) map[string]string {
	dup := make(map[string]string, len(meta))
	for k, v := range meta {
		dup[k] = v
	}
	return dup
}
