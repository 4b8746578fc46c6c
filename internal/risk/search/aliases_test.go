package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandVendorTerms_KnownVendor(t *testing.T) {
	terms := ExpandVendorTerms("POSCO Holdings")

	assert.Len(t, terms, 5)
	assert.Equal(t, "POSCO Holdings", terms[0], "canonical name comes first")
	assert.Contains(t, terms, "POSCO")
}

func TestExpandVendorTerms_UnknownVendor(t *testing.T) {
	terms := ExpandVendorTerms("Acme Widgets")

	assert.Equal(t, []string{"Acme Widgets"}, terms)
}

func TestExpandVendorTerms_EmptyName(t *testing.T) {
	assert.Nil(t, ExpandVendorTerms(""))
	assert.Nil(t, ExpandVendorTerms("   "))
}

func TestExpandVendorTerms_Dedup(t *testing.T) {
	terms := ExpandVendorTerms("Hyundai Steel")

	seen := make(map[string]int)
	for _, term := range terms {
		seen[term]++
	}
	for term, n := range seen {
		assert.Equal(t, 1, n, "duplicate term: %s", term)
	}
}
