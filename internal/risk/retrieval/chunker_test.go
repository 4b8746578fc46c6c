package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorwatch/risk-backend/internal/risk/domain"
)

func TestDocItems(t *testing.T) {
	docs := []domain.Document{
		{ID: "1", Title: "A", Text: "full article body", Snippet: "short"},
		{ID: "2", Title: "B", Snippet: "snippet only"},
		{ID: "3", Title: "C"},
	}

	items := DocItems(docs)

	require.Len(t, items, 2, "textless document is skipped")
	assert.Equal(t, "full article body", items[0].Text)
	assert.Equal(t, "1", items[0].Metadata["doc_id"])
	assert.Equal(t, "snippet only", items[1].Text, "snippet fills in for missing text")
}

func TestSplitChunks_BreaksAtSpaces(t *testing.T) {
	text := strings.Repeat("word ", 100) // 500 chars
	items := []Chunk{{Text: text, Metadata: map[string]string{"doc_id": "1"}}}

	chunks := SplitChunks(items, 120)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), 120)
		assert.NotEqual(t, " ", c.Text[:1])
		assert.Equal(t, "1", c.Metadata["doc_id"])
	}
}

func TestSplitChunks_MetadataCopied(t *testing.T) {
	items := []Chunk{{Text: strings.Repeat("a ", 200), Metadata: map[string]string{"doc_id": "1"}}}

	chunks := SplitChunks(items, 100)
	require.Greater(t, len(chunks), 1)

	chunks[0].Metadata["run_id"] = "r1"
	_, leaked := chunks[1].Metadata["run_id"]
	assert.False(t, leaked, "chunks must not share a metadata map")
}

func TestSplitChunks_ShortTextSingleChunk(t *testing.T) {
	items := []Chunk{{Text: "short", Metadata: map[string]string{}}}

	chunks := SplitChunks(items, 800)

	require.Len(t, chunks, 1)
	assert.Equal(t, "short", chunks[0].Text)
}
