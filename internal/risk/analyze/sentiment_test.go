package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vendorwatch/risk-backend/internal/risk/domain"
)

func TestSplitBySentiment(t *testing.T) {
	docs := []domain.Document{
		{ID: "1", Title: "Explosion at plant kills two", Snippet: "company donation fund announced"},
		{ID: "2", Title: "Vendor fined over emissions"},
		{ID: "3", Title: "Vendor launches scholarship program", Snippet: "fine print applies"},
		{ID: "4", Title: "Vendor opens new headquarters"},
	}

	negative, nonNegative := SplitBySentiment(docs)

	// hard negative wins even with positive context
	assert.Equal(t, "1", negative[0].ID)
	// plain strong negative
	assert.Equal(t, "2", negative[1].ID)
	assert.Len(t, negative, 2)

	// positive override suppresses the weak negative, neutral stays out
	assert.Len(t, nonNegative, 2)
	assert.Equal(t, "3", nonNegative[0].ID)
	assert.Equal(t, "4", nonNegative[1].ID)
}

func TestSplitBySentiment_Empty(t *testing.T) {
	negative, nonNegative := SplitBySentiment(nil)
	assert.Empty(t, negative)
	assert.Empty(t, nonNegative)
}
